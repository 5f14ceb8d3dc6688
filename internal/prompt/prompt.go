package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"TrendScope/internal/collector"
)

// ErrInvalidInput is returned when an answer cannot be parsed or is out of range.
var ErrInvalidInput = errors.New("invalid input")

// Prompter asks blocking questions on a line-oriented console.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter reading answers from in and writing questions to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) ask(question string) (string, error) {
	if _, err := fmt.Fprint(p.out, question); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Tickers asks for a comma-separated list of symbols.
func (p *Prompter) Tickers() ([]string, error) {
	answer, err := p.ask("Enter ticker symbols (comma-separated), e.g. AAPL,MSFT,GOOG: ")
	if err != nil {
		return nil, err
	}
	tickers := collector.ParseTickers(answer)
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, collector.ErrNoTickers)
	}
	return tickers, nil
}

// Ticker asks for the single symbol to backtest.
func (p *Prompter) Ticker() (string, error) {
	answer, err := p.ask("Ticker to backtest (e.g. AAPL): ")
	if err != nil {
		return "", err
	}
	tickers := collector.ParseTickers(answer)
	if len(tickers) != 1 {
		return "", fmt.Errorf("%w: expected one ticker, got %q", ErrInvalidInput, answer)
	}
	return tickers[0], nil
}

// Horizon asks for the forecast horizon in days.
func (p *Prompter) Horizon() (int, error) {
	answer, err := p.ask("Enter forecast horizon in trading days (e.g. 30): ")
	if err != nil {
		return 0, err
	}
	return ParsePositiveInt(answer)
}

// PortfolioValue asks for the total value to allocate.
func (p *Prompter) PortfolioValue() (float64, error) {
	answer, err := p.ask("Enter total portfolio value in USD (e.g. 10000): ")
	if err != nil {
		return 0, err
	}
	return ParsePositiveFloat(answer)
}

// Position asks for the position size VaR is computed for.
func (p *Prompter) Position() (float64, error) {
	answer, err := p.ask("Enter position size in USD for 1-day VaR (e.g. 1000): ")
	if err != nil {
		return 0, err
	}
	return ParsePositiveFloat(answer)
}

// ParsePositiveInt parses a whole number greater than zero.
func ParsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidInput, s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d must be greater than zero", ErrInvalidInput, n)
	}
	return n, nil
}

// ParsePositiveFloat parses a finite number greater than zero.
func ParsePositiveFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, s)
	}
	if !(v > 0) || v > 1e15 {
		return 0, fmt.Errorf("%w: %v must be a positive amount", ErrInvalidInput, v)
	}
	return v, nil
}

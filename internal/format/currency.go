package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"blackphoenix/internal/models"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ru"
	"github.com/go-playground/locales/uz"
	ut "github.com/go-playground/universal-translator"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultLocale = "uz"
	DefaultSuffix = " so'm"
)

// Formatter renders amounts and day labels for one display locale. It is
// immutable and safe for concurrent use.
type Formatter struct {
	locale  string
	suffix  string
	printer *message.Printer
	trans   locales.Translator
}

// New builds a Formatter for locale (BCP 47, e.g. "uz-UZ"). Unknown or
// malformed locales fall back to English for both digits and weekday names.
func New(locale, suffix string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	base, _ := tag.Base()

	uni := ut.New(en.New(), en.New(), uz.New(), ru.New())
	trans, _ := uni.FindTranslator(strings.ReplaceAll(locale, "-", "_"), base.String())

	return &Formatter{
		locale:  tag.String(),
		suffix:  suffix,
		printer: message.NewPrinter(tag),
		trans:   trans,
	}
}

func (f *Formatter) Locale() string { return f.locale }

// Currency groups the whole-unit amount per the locale and appends the
// currency suffix. Nil and non-numeric input render as zero.
func (f *Formatter) Currency(v any) string {
	n := ToDecimal(v).Round(0).IntPart()
	return f.printer.Sprintf("%d", n) + f.suffix
}

// Compact renders a chart axis tick: millions as "1.2M", smaller values grouped.
func (f *Formatter) Compact(v any) string {
	d := ToDecimal(v)
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1_000_000)) {
		return d.Div(decimal.NewFromInt(1_000_000)).StringFixed(1) + "M"
	}
	return f.printer.Sprintf("%d", d.Round(0).IntPart())
}

// Percent renders a share with one decimal place; zero renders as "0%".
func (f *Formatter) Percent(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", v)
}

// WeekdayLabel returns the abbreviated weekday name of day.
func (f *Formatter) WeekdayLabel(day time.Time) string {
	return f.trans.WeekdayAbbreviated(day.Weekday())
}

// ToDecimal coerces a loosely typed numeric value. Anything it cannot read is 0.
func ToDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case models.Amount:
		return x.Decimal
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(x)
	case *float64:
		if x == nil {
			return decimal.Zero
		}
		return ToDecimal(*x)
	case float32:
		return ToDecimal(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

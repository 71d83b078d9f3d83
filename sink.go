package glean

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
)

// Sink consumes extraction results.
type Sink interface {
	Present(r *Result) error
}

// ConsoleSink writes extraction results to a writer, either as indented
// JSON or as a field-per-line record listing.
type ConsoleSink struct {
	Out    io.Writer
	AsJSON bool
}

// NewConsoleSink writes records to stdout.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{Out: os.Stdout}
}

// Present renders the result. Structured results list each record's
// fields; unstructured results print the raw text.
func (c *ConsoleSink) Present(r *Result) error {
	if r == nil {
		return fmt.Errorf("present: nil result")
	}
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	if c.AsJSON {
		var buf strings.Builder
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r.payload()); err != nil {
			return fmt.Errorf("present: %w", err)
		}
		_, err := io.WriteString(out, buf.String())
		return err
	}
	if r.records == nil {
		_, err := fmt.Fprintln(out, r.Text)
		return err
	}
	return writeRecords(out, r.records)
}

func (r *Result) payload() any {
	if r.records != nil {
		return r.records
	}
	return r.Text
}

func writeRecords(out io.Writer, records any) error {
	v := reflect.ValueOf(records)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("present: records are %s, not a slice", v.Kind())
	}
	for i := 0; i < v.Len(); i++ {
		if _, err := fmt.Fprintf(out, "--- record %d ---\n", i+1); err != nil {
			return err
		}
		if err := writeFields(out, v.Index(i), ""); err != nil {
			return err
		}
	}
	return nil
}

func writeFields(out io.Writer, v reflect.Value, indent string) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := jsonFieldName(f)
		fv := v.Field(i)
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		switch fv.Kind() {
		case reflect.Struct:
			if _, err := fmt.Fprintf(out, "%s%s:\n", indent, name); err != nil {
				return err
			}
			if err := writeFields(out, fv, indent+"  "); err != nil {
				return err
			}
		case reflect.Slice:
			if _, err := fmt.Fprintf(out, "%s%s:\n", indent, name); err != nil {
				return err
			}
			for j := 0; j < fv.Len(); j++ {
				ev := fv.Index(j)
				if ev.Kind() == reflect.Struct {
					if _, err := fmt.Fprintf(out, "%s  [%d]\n", indent, j+1); err != nil {
						return err
					}
					if err := writeFields(out, ev, indent+"    "); err != nil {
						return err
					}
				} else if _, err := fmt.Fprintf(out, "%s  - %v\n", indent, ev.Interface()); err != nil {
					return err
				}
			}
		default:
			if _, err := fmt.Fprintf(out, "%s%s: %v\n", indent, name, fv.Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return f.Name
	}
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	if tag == "" {
		return f.Name
	}
	return tag
}

// RenderPriceChart draws a text line chart of closing prices, width
// columns by height rows, with dollar labels on the left edge.
func RenderPriceChart(points []PricePoint, width, height int) string {
	if len(points) < 2 || width < 10 || height < 4 {
		return ""
	}

	minPrice, maxPrice := points[0].Close, points[0].Close
	for _, p := range points {
		if p.Close < minPrice {
			minPrice = p.Close
		}
		if p.Close > maxPrice {
			maxPrice = p.Close
		}
	}
	priceRange := maxPrice - minPrice
	if priceRange < 0.01 {
		priceRange = maxPrice * 0.1
	}
	minPrice -= priceRange * 0.05
	maxPrice += priceRange * 0.05
	priceRange = maxPrice - minPrice

	step := len(points) / width
	if step < 1 {
		step = 1
	}
	var sampled []float64
	for i := 0; i < len(points); i += step {
		sampled = append(sampled, points[i].Close)
	}
	last := points[len(points)-1].Close
	if sampled[len(sampled)-1] != last {
		sampled = append(sampled, last)
	}

	const labelWidth = 9
	var b strings.Builder
	for row := 0; row < height; row++ {
		upper := maxPrice - priceRange*float64(row)/float64(height-1)
		lower := maxPrice - priceRange*float64(row+1)/float64(height-1)

		if row == 0 || row == height/2 || row == height-1 {
			fmt.Fprintf(&b, "%*s ", labelWidth, fmt.Sprintf("$%.2f", upper))
		} else {
			fmt.Fprintf(&b, "%*s ", labelWidth, "")
		}

		b.WriteString("│")
		for col := 0; col < len(sampled) && col < width; col++ {
			price := sampled[col]
			switch {
			case price >= lower && price <= upper:
				if col > 0 && price > sampled[col-1] {
					b.WriteString("╱")
				} else if col > 0 && price < sampled[col-1] {
					b.WriteString("╲")
				} else {
					b.WriteString("─")
				}
			case col > 0 && row < height-1 && crossesBand(sampled[col-1], price, upper, lower):
				b.WriteString("│")
			default:
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%*s └", labelWidth, "")
	for i := 0; i < width && i < len(sampled); i++ {
		b.WriteString("─")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%*s  %s%*s%s\n", labelWidth, "",
		points[0].Date.Format("Jan 2006"),
		width-16, "",
		points[len(points)-1].Date.Format("Jan 2006"))
	return b.String()
}

func crossesBand(prev, cur, upper, lower float64) bool {
	return (prev <= upper && cur >= lower) || (cur <= upper && prev >= lower)
}

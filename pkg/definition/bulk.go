package definition

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/turing/pkg/validation"
)

// ErrMalformedRecord is returned when the bulk format structure is broken.
var ErrMalformedRecord = errors.New("malformed record")

// DecodeBulk reads the single-line, semicolon separated format:
//
//	start,k,final_1,...,final_k,n;from,a:b,M,to;...
//
// Line breaks are ignored so long tables may be wrapped. Records after the
// n-th rule are ignored.
func DecodeBulk(r io.Reader) (Definition, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Definition{}, fmt.Errorf("failed to read bulk definition: %w", err)
	}
	text := strings.NewReplacer("\r", "", "\n", "").Replace(string(raw))
	records := strings.Split(strings.TrimSpace(text), ";")

	header := splitFields(records[0])
	if len(header) < 3 {
		return Definition{}, fmt.Errorf("%w 0: expected start,count,finals...,transitions, got %q", ErrMalformedRecord, records[0])
	}

	var def Definition
	def.Start = header[0]

	finals, err := validation.Count("final_count", header[1])
	if err != nil {
		return Definition{}, err
	}
	if len(header) != finals+3 {
		return Definition{}, fmt.Errorf("%w 0: declares %d final states but has %d fields", ErrMalformedRecord, finals, len(header))
	}
	def.Accepting = append(def.Accepting, header[2:2+finals]...)

	n, err := validation.Count("transition_count", header[2+finals])
	if err != nil {
		return Definition{}, err
	}
	if len(records)-1 < n {
		return Definition{}, fmt.Errorf("%w: declares %d transitions but has %d", ErrMalformedRecord, n, len(records)-1)
	}

	for i := 1; i <= n; i++ {
		fields := splitFields(records[i])
		if len(fields) != 4 {
			return Definition{}, fmt.Errorf("%w %d: expected from,a:b,M,to, got %q", ErrMalformedRecord, i, records[i])
		}
		def.Transitions = append(def.Transitions, Rule{
			From: fields[0],
			Rule: fields[1] + "," + fields[2],
			To:   fields[3],
		})
	}

	return def, nil
}

// EncodeBulk writes d in the bulk format, terminated by a newline.
func EncodeBulk(w io.Writer, d Definition) error {
	var sb strings.Builder
	sb.WriteString(d.Start)
	fmt.Fprintf(&sb, ",%d", len(d.Accepting))
	for _, s := range d.Accepting {
		sb.WriteString(",")
		sb.WriteString(s)
	}
	fmt.Fprintf(&sb, ",%d", len(d.Transitions))
	for _, r := range d.Transitions {
		fmt.Fprintf(&sb, ";%s,%s,%s", r.From, r.Rule, r.To)
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func splitFields(record string) []string {
	fields := strings.Split(record, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

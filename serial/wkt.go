// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package serial

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/errors"
	"github.com/tempodb/temporal/tempval"
	"github.com/tempodb/temporal/timespan"
)

// AsWKT renders temp as a textual value: `{value@timestamp, ...}` for
// InstantSet/SequenceSet members, `[value@timestamp, ...]`/`(...)` for a
// Sequence with its inclusivity brackets, and a bare `value@timestamp` for
// an Instant. Grounded on temporal_out.c's WKT writer, which builds the
// same bracket-per-subtype text this function emits.
func AsWKT(temp tempval.Temporal) (string, error) {
	var b strings.Builder
	switch v := temp.(type) {
	case tempval.Instant:
		writeInstantWKT(&b, v)
	case *tempval.InstantSet:
		b.WriteByte('{')
		for i, inst := range v.Instants() {
			if i > 0 {
				b.WriteString(", ")
			}
			writeInstantWKT(&b, inst)
		}
		b.WriteByte('}')
	case *tempval.Sequence:
		writeSequenceWKT(&b, v)
	case *tempval.SequenceSet:
		b.WriteByte('{')
		for i, seq := range v.Sequences() {
			if i > 0 {
				b.WriteString(", ")
			}
			writeSequenceWKT(&b, seq)
		}
		b.WriteByte('}')
	default:
		return "", errors.E("as_wkt", errors.Unsupported, "unrecognized temporal variant")
	}
	return b.String(), nil
}

func writeInstantWKT(b *strings.Builder, inst tempval.Instant) {
	b.WriteString(valueWKT(inst.V))
	b.WriteByte('@')
	b.WriteString(inst.T.Time().UTC().Format(time.RFC3339Nano))
}

func writeSequenceWKT(b *strings.Builder, seq *tempval.Sequence) {
	if seq.LowerInc() {
		b.WriteByte('[')
	} else {
		b.WriteByte('(')
	}
	for i, inst := range seq.Instants() {
		if i > 0 {
			b.WriteString(", ")
		}
		writeInstantWKT(b, inst)
	}
	if seq.UpperInc() {
		b.WriteByte(']')
	} else {
		b.WriteByte(')')
	}
}

func valueWKT(v basevalue.Value) string {
	switch v.Type {
	case basevalue.Bool:
		return strconv.FormatBool(v.B)
	case basevalue.Int:
		return strconv.FormatInt(v.I, 10)
	case basevalue.Float:
		return strconv.FormatFloat(v.F, 'g', -1, 64)
	case basevalue.Text:
		return strconv.Quote(v.S)
	case basevalue.Point2D:
		return fmt.Sprintf("POINT(%s %s)", trimFloat(v.Pt.X), trimFloat(v.Pt.Y))
	case basevalue.Point3D:
		return fmt.Sprintf("POINT Z(%s %s %s)", trimFloat(v.Pt.X), trimFloat(v.Pt.Y), trimFloat(v.Pt.Z))
	case basevalue.GeogPoint:
		return fmt.Sprintf("POINT(%s %s)", trimFloat(v.Pt.X), trimFloat(v.Pt.Y))
	default:
		return ""
	}
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// wktLexer is a hand-written recursive-descent reader over WKT text: no
// example repo in the retrieval pack carries a WKT grammar, so only the
// lexer shape (peek/advance over a rune cursor, skip-whitespace between
// tokens) is borrowed from general tokenizer practice.
type wktLexer struct {
	s   string
	pos int
}

func (l *wktLexer) skipSpace() {
	for l.pos < len(l.s) && (l.s[l.pos] == ' ' || l.s[l.pos] == '\t' || l.s[l.pos] == '\n') {
		l.pos++
	}
}

func (l *wktLexer) peek() byte {
	l.skipSpace()
	if l.pos >= len(l.s) {
		return 0
	}
	return l.s[l.pos]
}

func (l *wktLexer) expect(b byte) error {
	l.skipSpace()
	if l.pos >= len(l.s) || l.s[l.pos] != b {
		return errors.E("wkt_parse", errors.InvalidInput, errors.Detailf("expected %q at offset %d", b, l.pos))
	}
	l.pos++
	return nil
}

func (l *wktLexer) readUntilAny(delims string) string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.s) && !strings.ContainsRune(delims, rune(l.s[l.pos])) {
		l.pos++
	}
	return strings.TrimSpace(l.s[start:l.pos])
}

// FromWKT parses a WKT string produced by AsWKT back into a Temporal,
// given the base type the caller expects (WKT carries no type tag of its
// own, unlike WKB).
func FromWKT(s string, baseType basevalue.Type) (tempval.Temporal, error) {
	l := &wktLexer{s: s}
	switch l.peek() {
	case '{':
		return parseSetWKT(l, baseType)
	case '[', '(':
		return parseSequenceWKT(l, baseType)
	default:
		return parseInstantWKT(l, baseType)
	}
}

func parseSetWKT(l *wktLexer, baseType basevalue.Type) (tempval.Temporal, error) {
	if err := l.expect('{'); err != nil {
		return nil, err
	}
	isSeq := l.peek() == '[' || l.peek() == '('
	var insts []tempval.Instant
	var seqs []*tempval.Sequence
	for {
		if l.peek() == '}' {
			break
		}
		if isSeq {
			seq, err := parseSequenceWKT(l, baseType)
			if err != nil {
				return nil, err
			}
			seqs = append(seqs, seq.(*tempval.Sequence))
		} else {
			inst, err := parseInstantToken(l, baseType)
			if err != nil {
				return nil, err
			}
			insts = append(insts, inst)
		}
		if l.peek() == ',' {
			l.pos++
			continue
		}
		break
	}
	if err := l.expect('}'); err != nil {
		return nil, err
	}
	if isSeq {
		return tempval.NewSequenceSet(seqs, false)
	}
	return tempval.NewInstantSet(insts)
}

func parseSequenceWKT(l *wktLexer, baseType basevalue.Type) (tempval.Temporal, error) {
	lowerInc := l.peek() == '['
	var open byte = '['
	var close byte = ']'
	if !lowerInc {
		open, close = '(', ')'
	}
	if err := l.expect(open); err != nil {
		return nil, err
	}
	var insts []tempval.Instant
	for {
		if l.peek() == ']' || l.peek() == ')' {
			break
		}
		inst, err := parseInstantToken(l, baseType)
		if err != nil {
			return nil, err
		}
		insts = append(insts, inst)
		if l.peek() == ',' {
			l.pos++
			continue
		}
		break
	}
	upperInc := l.peek() == ']'
	l.skipSpace()
	if l.pos >= len(l.s) || l.s[l.pos] != close {
		return nil, errors.E("wkt_parse", errors.InvalidInput, errors.Detailf("unterminated sequence at offset %d", l.pos))
	}
	l.pos++
	interp := tempval.Linear
	if !baseType.SupportsLinear() {
		interp = tempval.Stepwise
	}
	return tempval.NewSequence(insts, lowerInc, upperInc, interp, false)
}

func parseInstantWKT(l *wktLexer, baseType basevalue.Type) (tempval.Temporal, error) {
	inst, err := parseInstantToken(l, baseType)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

func parseInstantToken(l *wktLexer, baseType basevalue.Type) (tempval.Instant, error) {
	valText := l.readUntilAny("@")
	if err := l.expect('@'); err != nil {
		return tempval.Instant{}, err
	}
	tsText := l.readUntilAny(",}])")
	v, err := parseValueWKT(valText, baseType)
	if err != nil {
		return tempval.Instant{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, tsText)
	if err != nil {
		return tempval.Instant{}, errors.E("wkt_parse", errors.InvalidInput, errors.Detailf("bad timestamp %q", tsText), err)
	}
	return tempval.Instant{T: timespan.FromTime(t), V: v}, nil
}

func parseValueWKT(s string, baseType basevalue.Type) (basevalue.Value, error) {
	switch baseType {
	case basevalue.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return basevalue.Value{}, errors.E("wkt_parse", errors.InvalidInput, errors.Detailf("bad bool %q", s), err)
		}
		return basevalue.NewBool(b), nil
	case basevalue.Int:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return basevalue.Value{}, errors.E("wkt_parse", errors.InvalidInput, errors.Detailf("bad int %q", s), err)
		}
		return basevalue.NewInt(i), nil
	case basevalue.Float:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return basevalue.Value{}, errors.E("wkt_parse", errors.InvalidInput, errors.Detailf("bad float %q", s), err)
		}
		return basevalue.NewFloat(f), nil
	case basevalue.Text:
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return basevalue.Value{}, errors.E("wkt_parse", errors.InvalidInput, errors.Detailf("bad text %q", s), err)
		}
		return basevalue.NewText(unquoted), nil
	case basevalue.Point2D, basevalue.Point3D, basevalue.GeogPoint:
		return parsePointWKT(s, baseType)
	default:
		return basevalue.Value{}, errors.E("wkt_parse", errors.Unsupported, errors.Detailf("base type %v", baseType))
	}
}

func parsePointWKT(s string, baseType basevalue.Type) (basevalue.Value, error) {
	inner := s
	inner = strings.TrimPrefix(inner, "POINT")
	inner = strings.TrimSpace(inner)
	inner = strings.TrimPrefix(inner, "Z")
	inner = strings.TrimSpace(inner)
	inner = strings.TrimPrefix(inner, "(")
	inner = strings.TrimSuffix(inner, ")")
	fields := strings.Fields(inner)
	nums := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return basevalue.Value{}, errors.E("wkt_parse", errors.InvalidInput, errors.Detailf("bad coordinate %q", f), err)
		}
		nums[i] = v
	}
	switch baseType {
	case basevalue.Point3D:
		if len(nums) != 3 {
			return basevalue.Value{}, errors.E("wkt_parse", errors.InvalidInput, "POINT Z requires 3 coordinates")
		}
		return basevalue.NewPoint3D(nums[0], nums[1], nums[2]), nil
	case basevalue.GeogPoint:
		if len(nums) != 2 {
			return basevalue.Value{}, errors.E("wkt_parse", errors.InvalidInput, "geographic POINT requires 2 coordinates")
		}
		return basevalue.NewGeogPoint(nums[0], nums[1]), nil
	default:
		if len(nums) != 2 {
			return basevalue.Value{}, errors.E("wkt_parse", errors.InvalidInput, "POINT requires 2 coordinates")
		}
		return basevalue.NewPoint2D(nums[0], nums[1]), nil
	}
}

// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package serial

import (
	"encoding/json"
	"strconv"

	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/errors"
	"github.com/tempodb/temporal/tempval"
	"github.com/tempodb/temporal/timespan"
)

// MFJSONOpts configures AsMFJSON.
type MFJSONOpts struct {
	// Precision is the number of decimal digits numeric coordinates are
	// rounded to, per §4.F's "caller-supplied, bounded by 15 decimal
	// digits" contract. Zero means unrounded.
	Precision int
	// CRS, if non-empty, is emitted as the top-level "crs" member.
	CRS string
	// WithBBox, if true, includes a "stBoundedBy" member.
	WithBBox bool
}

func (o MFJSONOpts) precision() int {
	if o.Precision <= 0 || o.Precision > 15 {
		return 15
	}
	return o.Precision
}

func mfTypeName(v tempval.Temporal) string {
	prefix := "Moving"
	switch v.BaseType() {
	case basevalue.Bool:
		prefix += "Boolean"
	case basevalue.Int:
		prefix += "Integer"
	case basevalue.Float:
		prefix += "Float"
	case basevalue.Text:
		prefix += "Text"
	case basevalue.Point2D, basevalue.Point3D, basevalue.GeogPoint:
		prefix += "Point"
	}
	return prefix
}

func roundTo(f float64, digits int) float64 {
	if digits >= 15 {
		return f
	}
	mul := 1.0
	for i := 0; i < digits; i++ {
		mul *= 10
	}
	return float64(int64(f*mul+copysignHalf(f))) / mul
}

func copysignHalf(f float64) float64 {
	if f < 0 {
		return -0.5
	}
	return 0.5
}

func mfValue(v basevalue.Value, precision int) interface{} {
	switch v.Type {
	case basevalue.Bool:
		return v.B
	case basevalue.Int:
		return v.I
	case basevalue.Float:
		return roundTo(v.F, precision)
	case basevalue.Text:
		return v.S
	case basevalue.Point2D:
		return []float64{roundTo(v.Pt.X, precision), roundTo(v.Pt.Y, precision)}
	case basevalue.Point3D:
		return []float64{roundTo(v.Pt.X, precision), roundTo(v.Pt.Y, precision), roundTo(v.Pt.Z, precision)}
	case basevalue.GeogPoint:
		return []float64{roundTo(v.Pt.X, precision), roundTo(v.Pt.Y, precision)}
	default:
		return nil
	}
}

func isPointBase(t basevalue.Type) bool {
	return t == basevalue.Point2D || t == basevalue.Point3D || t == basevalue.GeogPoint
}

func datetimeString(t timespan.Timestamp) string {
	return t.Time().Format("2006-01-02T15:04:05.999999999Z")
}

func instantsMember(insts []tempval.Instant, isPoint bool, precision int) (valuesKey string, values interface{}, datetimes []string) {
	datetimes = make([]string, len(insts))
	if isPoint {
		coords := make([]interface{}, len(insts))
		for i, inst := range insts {
			coords[i] = mfValue(inst.V, precision)
			datetimes[i] = datetimeString(inst.T)
		}
		return "coordinates", coords, datetimes
	}
	vals := make([]interface{}, len(insts))
	for i, inst := range insts {
		vals[i] = mfValue(inst.V, precision)
		datetimes[i] = datetimeString(inst.T)
	}
	return "values", vals, datetimes
}

// AsMFJSON renders temp as an MF-JSON document (the Moving Features JSON
// encoding §4.F specifies). The marshaled document is copied into a
// buffer pre-sized with estimateMFJSONSize, mirroring the
// size-hint-then-fill buffering pattern grailbio/bio's encoding/pam
// package uses for shard pages.
func AsMFJSON(temp tempval.Temporal, opts MFJSONOpts) ([]byte, error) {
	precision := opts.precision()
	doc := make(map[string]interface{}, 6)
	doc["type"] = mfTypeName(temp)
	if opts.CRS != "" {
		doc["crs"] = map[string]interface{}{"type": "name", "properties": map[string]string{"name": opts.CRS}}
	}
	if opts.WithBBox {
		p := temp.Span()
		doc["stBoundedBy"] = map[string]interface{}{
			"lower": datetimeString(p.Lower),
			"upper": datetimeString(p.Upper),
		}
	}

	isPoint := isPointBase(temp.BaseType())

	switch v := temp.(type) {
	case tempval.Instant:
		key, val, dts := instantsMember([]tempval.Instant{v}, isPoint, precision)
		if isPoint {
			doc[key] = val.([]interface{})[0]
		} else {
			doc[key] = val.([]interface{})[0]
		}
		doc["datetimes"] = dts[0]
	case *tempval.InstantSet:
		key, val, dts := instantsMember(v.Instants(), isPoint, precision)
		doc[key] = val
		doc["datetimes"] = dts
	case *tempval.Sequence:
		key, val, dts := instantsMember(v.Instants(), isPoint, precision)
		doc[key] = val
		doc["datetimes"] = dts
		doc["lower_inc"] = v.LowerInc()
		doc["upper_inc"] = v.UpperInc()
		doc["interpolations"] = []string{v.Interpolation().String()}
	case *tempval.SequenceSet:
		var seqVals []interface{}
		var seqDts [][]string
		var lowers, uppers []bool
		var key string
		for _, seq := range v.Sequences() {
			k, val, dts := instantsMember(seq.Instants(), isPoint, precision)
			key = k
			seqVals = append(seqVals, val)
			seqDts = append(seqDts, dts)
			lowers = append(lowers, seq.LowerInc())
			uppers = append(uppers, seq.UpperInc())
		}
		doc["sequences"] = map[string]interface{}{
			key:         seqVals,
			"datetimes": seqDts,
			"lower_inc": lowers,
			"upper_inc": uppers,
		}
		doc["interpolations"] = []string{v.Interpolation().String()}
	default:
		return nil, errors.E("as_mfjson", errors.Unsupported, "unrecognized temporal variant")
	}

	buf := make([]byte, 0, estimateMFJSONSize(temp))
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.E("as_mfjson", errors.Other, "", err)
	}
	buf = append(buf, out...)
	return buf, nil
}

// estimateMFJSONSize returns a rough byte-count estimate used only to
// pre-size the output buffer.
func estimateMFJSONSize(temp tempval.Temporal) int {
	n := 64
	switch v := temp.(type) {
	case *tempval.InstantSet:
		n += v.Len() * 48
	case *tempval.Sequence:
		n += v.Len() * 48
	case *tempval.SequenceSet:
		for _, seq := range v.Sequences() {
			n += seq.Len() * 48
		}
	}
	return n
}

func formatFloat(f float64, precision int) string {
	return strconv.FormatFloat(roundTo(f, precision), 'f', -1, 64)
}

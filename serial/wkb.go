// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package serial implements the on-the-wire formats §4.F specifies: a
// binary WKB/HexWKB reader and writer, an MF-JSON writer, and a WKT
// reader/writer.
//
// The WKB writer/reader is grounded on encoding/bam/marshal.go's
// binaryWriter (a scratch buffer plus fixed-width little-endian field
// writes) and encoding/bam/unmarshal.go's fixed-header-then-variable-body
// reading shape, generalized from BAM's byte order (always little-endian)
// to an explicit NDR/XDR choice per §4.F's endianness tag.
package serial

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/bbox"
	"github.com/tempodb/temporal/errors"
	"github.com/tempodb/temporal/tempval"
	"github.com/tempodb/temporal/timespan"
)

// Endian selects the byte order a WKB writer emits and tags in its
// endianness byte.
type Endian int

const (
	// NDR is little-endian, the x86/ARM native order.
	NDR Endian = iota
	// XDR is big-endian, the network/Sun order.
	XDR
)

const (
	wkbBool Type = iota + 1
	wkbInt
	wkbFloat
	wkbText
	wkbGeomPoint
	wkbGeogPoint
)

// Type tags the WKB wire representation of a base type; distinct from
// basevalue.Type because Point2D and Point3D share one wire tag
// (disambiguated by the Z flag bit) while GeogPoint gets its own.
type Type uint16

const (
	flagZ        = 0x01
	flagGeodetic = 0x02
	flagSRID     = 0x04
)

const (
	subtypeInstant = 1 + iota
	subtypeInstantSet
	subtypeSequence
	subtypeSequenceSet
)

func wkbTypeTag(t basevalue.Type) (Type, error) {
	switch t {
	case basevalue.Bool:
		return wkbBool, nil
	case basevalue.Int:
		return wkbInt, nil
	case basevalue.Float:
		return wkbFloat, nil
	case basevalue.Text:
		return wkbText, nil
	case basevalue.Point2D, basevalue.Point3D:
		return wkbGeomPoint, nil
	case basevalue.GeogPoint:
		return wkbGeogPoint, nil
	default:
		return 0, errors.E("wkb_type_tag", errors.Unsupported, errors.Detailf("base type %v", t))
	}
}

func baseTypeFromTag(tag Type, hasZ bool) (basevalue.Type, error) {
	switch tag {
	case wkbBool:
		return basevalue.Bool, nil
	case wkbInt:
		return basevalue.Int, nil
	case wkbFloat:
		return basevalue.Float, nil
	case wkbText:
		return basevalue.Text, nil
	case wkbGeomPoint:
		if hasZ {
			return basevalue.Point3D, nil
		}
		return basevalue.Point2D, nil
	case wkbGeogPoint:
		return basevalue.GeogPoint, nil
	default:
		return 0, errors.E("wkb_type_tag", errors.Unsupported, errors.Detailf("wire tag %d", tag))
	}
}

func interpCode(i tempval.Interpolation) uint8 {
	switch i {
	case tempval.Discrete:
		return 0
	case tempval.Stepwise:
		return 1
	case tempval.Linear:
		return 2
	default:
		return 0
	}
}

func interpFromCode(c uint8) tempval.Interpolation {
	switch c {
	case 1:
		return tempval.Stepwise
	case 2:
		return tempval.Linear
	default:
		return tempval.Discrete
	}
}

func subtypeCode(v tempval.VariantKind) uint8 {
	switch v {
	case tempval.InstantVariant:
		return subtypeInstant
	case tempval.InstantSetVariant:
		return subtypeInstantSet
	case tempval.SequenceVariant:
		return subtypeSequence
	case tempval.SequenceSetVariant:
		return subtypeSequenceSet
	default:
		return 0
	}
}

func boundByte(lowerInc, upperInc bool) uint8 {
	var b uint8
	if lowerInc {
		b |= 0x01
	}
	if upperInc {
		b |= 0x02
	}
	return b
}

func boundsFromByte(b uint8) (lowerInc, upperInc bool) {
	return b&0x01 != 0, b&0x02 != 0
}

type binaryWriter struct {
	buf   bytes.Buffer
	order binary.ByteOrder
}

func newBinaryWriter(endian Endian) *binaryWriter {
	order := binary.ByteOrder(binary.LittleEndian)
	if endian == XDR {
		order = binary.BigEndian
	}
	return &binaryWriter{order: order}
}

func (w *binaryWriter) writeUint8(v uint8) { w.buf.WriteByte(v) }

func (w *binaryWriter) writeUint16(v uint16) {
	var b [2]byte
	w.order.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *binaryWriter) writeUint32(v uint32) {
	var b [4]byte
	w.order.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *binaryWriter) writeInt64(v int64) {
	var b [8]byte
	w.order.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
}

func (w *binaryWriter) writeFloat64(v float64) {
	var b [8]byte
	w.order.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
}

func (w *binaryWriter) writeBool(v bool) {
	if v {
		w.writeUint8(1)
	} else {
		w.writeUint8(0)
	}
}

func (w *binaryWriter) writeText(s string) {
	w.writeUint32(uint32(len(s)))
	w.buf.WriteString(s)
}

func writeValue(w *binaryWriter, v basevalue.Value) error {
	switch v.Type {
	case basevalue.Bool:
		w.writeBool(v.B)
	case basevalue.Int:
		w.writeUint32(uint32(int32(v.I)))
	case basevalue.Float:
		w.writeFloat64(v.F)
	case basevalue.Text:
		w.writeText(v.S)
	case basevalue.Point2D:
		w.writeFloat64(v.Pt.X)
		w.writeFloat64(v.Pt.Y)
	case basevalue.Point3D:
		w.writeFloat64(v.Pt.X)
		w.writeFloat64(v.Pt.Y)
		w.writeFloat64(v.Pt.Z)
	case basevalue.GeogPoint:
		w.writeFloat64(v.Pt.X)
		w.writeFloat64(v.Pt.Y)
	default:
		return errors.E("wkb_write_value", errors.Unsupported, errors.Detailf("base type %v", v.Type))
	}
	return nil
}

func writeInstant(w *binaryWriter, inst tempval.Instant) error {
	if err := writeValue(w, inst.V); err != nil {
		return err
	}
	w.writeInt64(int64(inst.T))
	return nil
}

// AsWKB encodes temp as WKB using the given byte order.
func AsWKB(temp tempval.Temporal, endian Endian) ([]byte, error) {
	w := newBinaryWriter(endian)
	if endian == NDR {
		w.writeUint8(1)
	} else {
		w.writeUint8(0)
	}

	tag, err := wkbTypeTag(temp.BaseType())
	if err != nil {
		return nil, err
	}
	w.writeUint16(uint16(tag))

	var flag uint8
	switch temp.BaseType() {
	case basevalue.Point3D:
		flag |= flagZ
	case basevalue.GeogPoint:
		flag |= flagGeodetic
	}
	box := temp.BBox()
	hasSRID := box.Kind == bbox.Spatio && box.HasSRID
	if hasSRID {
		flag |= flagSRID
	}
	flag |= interpCode(temp.Interpolation()) << 3
	flag |= subtypeCode(temp.Variant()) << 5
	w.writeUint8(flag)

	if hasSRID {
		w.writeUint32(uint32(box.SRID))
	}

	switch v := temp.(type) {
	case tempval.Instant:
		if err := writeInstant(w, tempval.Instant{T: v.T, V: v.V}); err != nil {
			return nil, err
		}
	case *tempval.InstantSet:
		w.writeUint32(uint32(v.Len()))
		for _, inst := range v.Instants() {
			if err := writeInstant(w, inst); err != nil {
				return nil, err
			}
		}
	case *tempval.Sequence:
		w.writeUint32(uint32(v.Len()))
		w.writeUint8(boundByte(v.LowerInc(), v.UpperInc()))
		for _, inst := range v.Instants() {
			if err := writeInstant(w, inst); err != nil {
				return nil, err
			}
		}
	case *tempval.SequenceSet:
		w.writeUint32(uint32(v.Len()))
		for _, seq := range v.Sequences() {
			w.writeUint32(uint32(seq.Len()))
			w.writeUint8(boundByte(seq.LowerInc(), seq.UpperInc()))
			for _, inst := range seq.Instants() {
				if err := writeInstant(w, inst); err != nil {
					return nil, err
				}
			}
		}
	default:
		return nil, errors.E("as_wkb", errors.Unsupported, "unrecognized temporal variant")
	}
	return w.buf.Bytes(), nil
}

// AsHexWKB encodes temp as WKB, then hex-encodes the result.
func AsHexWKB(temp tempval.Temporal, endian Endian) (string, error) {
	b, err := AsWKB(temp, endian)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

type binaryReader struct {
	data  []byte
	pos   int
	order binary.ByteOrder
}

func (r *binaryReader) need(n int) error {
	if r.pos+n > len(r.data) {
		return errors.E("wkb_read", errors.InvalidInput, "unexpected end of input")
	}
	return nil
}

func (r *binaryReader) readUint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *binaryReader) readUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := r.order.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *binaryReader) readUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := r.order.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *binaryReader) readInt64() (int64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := int64(r.order.Uint64(r.data[r.pos:]))
	r.pos += 8
	return v, nil
}

func (r *binaryReader) readFloat64() (float64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	bits := r.order.Uint64(r.data[r.pos:])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

func (r *binaryReader) readText() (string, error) {
	n, err := r.readUint32()
	if err != nil {
		return "", err
	}
	if err := r.need(int(n)); err != nil {
		return "", err
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func readValue(r *binaryReader, baseType basevalue.Type) (basevalue.Value, error) {
	switch baseType {
	case basevalue.Bool:
		b, err := r.readUint8()
		if err != nil {
			return basevalue.Value{}, err
		}
		return basevalue.NewBool(b != 0), nil
	case basevalue.Int:
		v, err := r.readUint32()
		if err != nil {
			return basevalue.Value{}, err
		}
		return basevalue.NewInt(int64(int32(v))), nil
	case basevalue.Float:
		v, err := r.readFloat64()
		if err != nil {
			return basevalue.Value{}, err
		}
		return basevalue.NewFloat(v), nil
	case basevalue.Text:
		s, err := r.readText()
		if err != nil {
			return basevalue.Value{}, err
		}
		return basevalue.NewText(s), nil
	case basevalue.Point2D:
		x, err := r.readFloat64()
		if err != nil {
			return basevalue.Value{}, err
		}
		y, err := r.readFloat64()
		if err != nil {
			return basevalue.Value{}, err
		}
		return basevalue.NewPoint2D(x, y), nil
	case basevalue.Point3D:
		x, err := r.readFloat64()
		if err != nil {
			return basevalue.Value{}, err
		}
		y, err := r.readFloat64()
		if err != nil {
			return basevalue.Value{}, err
		}
		z, err := r.readFloat64()
		if err != nil {
			return basevalue.Value{}, err
		}
		return basevalue.NewPoint3D(x, y, z), nil
	case basevalue.GeogPoint:
		lon, err := r.readFloat64()
		if err != nil {
			return basevalue.Value{}, err
		}
		lat, err := r.readFloat64()
		if err != nil {
			return basevalue.Value{}, err
		}
		return basevalue.NewGeogPoint(lon, lat), nil
	default:
		return basevalue.Value{}, errors.E("wkb_read_value", errors.Unsupported, errors.Detailf("base type %v", baseType))
	}
}

func readInstant(r *binaryReader, baseType basevalue.Type) (tempval.Instant, error) {
	v, err := readValue(r, baseType)
	if err != nil {
		return tempval.Instant{}, err
	}
	t, err := r.readInt64()
	if err != nil {
		return tempval.Instant{}, err
	}
	return tempval.Instant{T: timespan.Timestamp(t), V: v}, nil
}

// FromWKB decodes a WKB-encoded Temporal. It honors whichever endianness
// tag the stream itself carries, so NDR- and XDR-encoded input both
// decode without the caller specifying a byte order.
func FromWKB(b []byte) (tempval.Temporal, error) {
	r := &binaryReader{data: b, order: binary.LittleEndian}
	endByte, err := r.readUint8()
	if err != nil {
		return nil, err
	}
	if endByte == 0 {
		r.order = binary.BigEndian
	}

	tagRaw, err := r.readUint16()
	if err != nil {
		return nil, err
	}
	flag, err := r.readUint8()
	if err != nil {
		return nil, err
	}
	hasZ := flag&flagZ != 0
	baseType, err := baseTypeFromTag(Type(tagRaw), hasZ)
	if err != nil {
		return nil, err
	}
	interp := interpFromCode((flag >> 3) & 0x03)
	subtype := (flag >> 5) & 0x07

	if flag&flagSRID != 0 {
		if _, err := r.readUint32(); err != nil {
			return nil, err
		}
	}

	switch subtype {
	case subtypeInstant:
		inst, err := readInstant(r, baseType)
		if err != nil {
			return nil, err
		}
		return tempval.NewInstant(inst.T, inst.V), nil
	case subtypeInstantSet:
		n, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		insts := make([]tempval.Instant, n)
		for i := range insts {
			insts[i], err = readInstant(r, baseType)
			if err != nil {
				return nil, err
			}
		}
		return tempval.NewInstantSet(insts)
	case subtypeSequence:
		seq, err := readSequence(r, baseType, interp)
		if err != nil {
			return nil, err
		}
		return seq, nil
	case subtypeSequenceSet:
		n, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		seqs := make([]*tempval.Sequence, n)
		for i := range seqs {
			seqs[i], err = readSequence(r, baseType, interp)
			if err != nil {
				return nil, err
			}
		}
		return tempval.NewSequenceSet(seqs, false)
	default:
		return nil, errors.E("from_wkb", errors.InvalidInput, errors.Detailf("unknown subtype %d", subtype))
	}
}

func readSequence(r *binaryReader, baseType basevalue.Type, interp tempval.Interpolation) (*tempval.Sequence, error) {
	n, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	bByte, err := r.readUint8()
	if err != nil {
		return nil, err
	}
	lowerInc, upperInc := boundsFromByte(bByte)
	insts := make([]tempval.Instant, n)
	for i := range insts {
		insts[i], err = readInstant(r, baseType)
		if err != nil {
			return nil, err
		}
	}
	return tempval.NewSequence(insts, lowerInc, upperInc, interp, false)
}

// FromHexWKB hex-decodes s, then decodes the result as WKB.
func FromHexWKB(s string) (tempval.Temporal, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.E("from_hexwkb", errors.InvalidInput, "", err)
	}
	return FromWKB(b)
}

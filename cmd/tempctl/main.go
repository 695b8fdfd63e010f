// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*
tempctl is a small command-line tool for inspecting and converting
temporal values: it builds a Sequence from a flat list of floats and
timestamps, lifts a pair of values through a registered operator, and
decodes HexWKB values to print them as WKT or MF-JSON.

It plays the role bio-pamtool and bio-pileup play for the teacher's
genomics formats, but for this module's WKB/WKT/MF-JSON encodings
instead of BAM/PAM/BED.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/tempodb/temporal/basevalue"
	"github.com/tempodb/temporal/ops"
	"github.com/tempodb/temporal/serial"
	"github.com/tempodb/temporal/tempval"
	"github.com/tempodb/temporal/timespan"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [args]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  build     build a Linear float Sequence and print it as HexWKB\n")
	fmt.Fprintf(os.Stderr, "  wkt       decode a HexWKB string and print its WKT text\n")
	fmt.Fprintf(os.Stderr, "  mfjson    decode a HexWKB string and print its MF-JSON document\n")
	fmt.Fprintf(os.Stderr, "  value-at  decode a HexWKB string and evaluate it at a Unix timestamp\n")
	fmt.Fprintf(os.Stderr, "  lift      lift a registered operator over two HexWKB-encoded values\n")
}

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(os.Args[2:])
	case "wkt":
		err = runWKT(os.Args[2:])
	case "mfjson":
		err = runMFJSON(os.Args[2:])
	case "value-at":
		err = runValueAt(os.Args[2:])
	case "lift":
		err = runLift(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Panicf("%v", err)
	}
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad float %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseTimestamps(s string) ([]timespan.Timestamp, error) {
	parts := strings.Split(s, ",")
	out := make([]timespan.Timestamp, len(parts))
	for i, p := range parts {
		sec, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad timestamp %q: %w", p, err)
		}
		out[i] = timespan.FromTime(time.Unix(sec, 0).UTC())
	}
	return out, nil
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	values := fs.String("values", "", "comma-separated float values")
	times := fs.String("times", "", "comma-separated Unix-second timestamps, one per value")
	lowerInc := fs.Bool("lower-inc", true, "lower bound inclusive")
	upperInc := fs.Bool("upper-inc", true, "upper bound inclusive")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *values == "" || *times == "" {
		return fmt.Errorf("-values and -times are required")
	}
	vals, err := parseFloats(*values)
	if err != nil {
		return err
	}
	ts, err := parseTimestamps(*times)
	if err != nil {
		return err
	}
	if len(vals) != len(ts) {
		return fmt.Errorf("values and times must have the same length (%d != %d)", len(vals), len(ts))
	}
	insts := make([]tempval.Instant, len(vals))
	for i := range vals {
		insts[i] = tempval.Instant{T: ts[i], V: basevalue.NewFloat(vals[i])}
	}
	seq, err := tempval.NewSequence(insts, *lowerInc, *upperInc, tempval.Linear, true)
	if err != nil {
		return err
	}
	hexStr, err := serial.AsHexWKB(seq, serial.NDR)
	if err != nil {
		return err
	}
	fmt.Println(hexStr)
	return nil
}

func runWKT(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("wkt requires exactly one HexWKB argument")
	}
	temp, err := serial.FromHexWKB(args[0])
	if err != nil {
		return err
	}
	wkt, err := serial.AsWKT(temp)
	if err != nil {
		return err
	}
	fmt.Println(wkt)
	return nil
}

func runMFJSON(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("mfjson requires exactly one HexWKB argument")
	}
	temp, err := serial.FromHexWKB(args[0])
	if err != nil {
		return err
	}
	doc, err := serial.AsMFJSON(temp, serial.MFJSONOpts{})
	if err != nil {
		return err
	}
	fmt.Println(string(doc))
	return nil
}

func runValueAt(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("value-at requires a HexWKB argument and a Unix-second timestamp")
	}
	temp, err := serial.FromHexWKB(args[0])
	if err != nil {
		return err
	}
	sec, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("bad timestamp %q: %w", args[1], err)
	}
	t := timespan.FromTime(time.Unix(sec, 0).UTC())
	v, ok, err := temp.ValueAt(t)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("undefined")
		return nil
	}
	fmt.Println(valueString(v))
	return nil
}

func valueString(v basevalue.Value) string {
	switch v.Type {
	case basevalue.Bool:
		return strconv.FormatBool(v.B)
	case basevalue.Int:
		return strconv.FormatInt(v.I, 10)
	case basevalue.Float:
		return strconv.FormatFloat(v.F, 'g', -1, 64)
	case basevalue.Text:
		return v.S
	default:
		return fmt.Sprintf("%+v", v.Pt)
	}
}

var opNames = map[string]ops.Category{
	"and": ops.And, "or": ops.Or,
	"eq": ops.Eq, "ne": ops.Ne, "lt": ops.Lt, "le": ops.Le, "gt": ops.Gt, "ge": ops.Ge,
	"add": ops.Add, "sub": ops.Sub, "mul": ops.Mul, "div": ops.Div,
	"distance": ops.Distance,
}

func runLift(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("lift requires an operator name and two HexWKB arguments")
	}
	cat, ok := opNames[args[0]]
	if !ok {
		return fmt.Errorf("unknown operator %q", args[0])
	}
	a, err := serial.FromHexWKB(args[1])
	if err != nil {
		return err
	}
	b, err := serial.FromHexWKB(args[2])
	if err != nil {
		return err
	}
	result, err := ops.Lift2(cat, a, b)
	if err != nil {
		return err
	}
	if result == nil {
		fmt.Println("undefined (disjoint time domains)")
		return nil
	}
	wkt, err := serial.AsWKT(result)
	if err != nil {
		return err
	}
	fmt.Println(wkt)
	return nil
}

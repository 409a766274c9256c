// Copyright 2023 Hedgehog
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ctl implements the catalystwan CLI commands output and the conversion HTTP API
package ctl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pkg/errors"
	"go.githedgehog.com/catalystwan/pkg/convert"
	kyaml "sigs.k8s.io/yaml"
)

type Args struct {
	Output OutputType
}

type OutputType string

const (
	OutputTypeUndefined OutputType = ""
	OutputTypeText      OutputType = "text"
	OutputTypeJSON      OutputType = "json"
	OutputTypeYAML      OutputType = "yaml"
)

var OutputTypes = []OutputType{OutputTypeText, OutputTypeJSON, OutputTypeYAML}

type In interface{}

type Out interface {
	MarshalText(now time.Time) (string, error)
}

type WithErrors interface {
	Errors() []error
}

type Func[TIn In, TOut Out] func(ctx context.Context, in TIn) (TOut, error)

func Run[TIn In, TOut Out](ctx context.Context, f Func[TIn, TOut], args Args, in TIn, w io.Writer) error {
	outType := OutputTypeText
	if args.Output != OutputTypeUndefined {
		outType = args.Output
	}

	if !slices.Contains(OutputTypes, outType) {
		return errors.Errorf("invalid output type: %s", outType)
	}

	out, err := f(ctx, in)
	if err != nil {
		return err
	}

	return Render(time.Now(), outType, w, out)
}

func Render[TOut Out](now time.Time, output OutputType, w io.Writer, out TOut) error {
	var data []byte
	var err error
	switch output {
	case OutputTypeText:
		dataS, err := out.MarshalText(now)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal output as text")
		}

		data = []byte(dataS)
	case OutputTypeYAML:
		data, err = kyaml.Marshal(out)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal output as yaml")
		}
	case OutputTypeJSON:
		data, err = json.MarshalIndent(out, "", "  ")
		if err != nil {
			return errors.Wrapf(err, "failed to marshal output as json")
		}
		data = append(data, '\n')
	case OutputTypeUndefined:
		return errors.Errorf("output type %s is not defined", output)
	default:
		return errors.Errorf("output type %s is not implemented", output)
	}

	_, err = w.Write(data)
	if err != nil {
		return errors.Wrapf(err, "failed to write output")
	}

	var o Out = out
	if we, ok := o.(WithErrors); ok {
		errs := we.Errors()

		for _, err := range errs {
			slog.Error("Reported", "err", err)
		}

		if len(errs) > 0 {
			return errors.Errorf("%d errors reported", len(errs))
		}
	}

	return nil
}

func RenderTable(headers []string, data [][]string) string {
	str := &strings.Builder{}

	cfg := tablewriter.Config{
		Row: tw.CellConfig{
			Formatting: tw.CellFormatting{
				AutoWrap:  tw.WrapNormal,
				Alignment: tw.AlignLeft,
			},
			Padding: tw.CellPadding{Global: tw.Padding{Right: "    "}},
		},
		Header: tw.CellConfig{
			Formatting: tw.CellFormatting{
				AutoWrap:  tw.WrapNormal,
				Alignment: tw.AlignLeft,
			},
			Padding: tw.CellPadding{Global: tw.Padding{Right: "    "}},
		},
	}
	rendition := tw.Rendition{
		Borders: tw.BorderNone,
		Settings: tw.Settings{
			Lines:      tw.LinesNone,
			Separators: tw.SeparatorsNone,
		},
	}

	table := tablewriter.NewTable(str,
		tablewriter.WithRenderer(renderer.NewBlueprint(rendition)),
		tablewriter.WithConfig(cfg),
	)
	table.Header(headers)
	if err := table.Bulk(data); err != nil {
		slog.Error("Error in adding bulk data to table", "error", err)

		return "Error"
	}
	if err := table.Render(); err != nil {
		slog.Error("Error in table rendering", "error", err)

		return "Error"
	}

	return str.String()
}

func HumanizeTime(now, then time.Time) string {
	if then.IsZero() || then.Unix() == 0 {
		return "-"
	}

	return humanize.RelTime(then, now, "ago", "from now")
}

type colorFunc func(a ...any) string

var noColor = !isatty.IsTerminal(os.Stdout.Fd())

func colorFor(attr color.Attribute) colorFunc {
	if noColor {
		return func(a ...any) string { return fmt.Sprint(a...) }
	}

	return color.New(attr).SprintFunc()
}

func colorStatus(status convert.Status) string {
	switch status {
	case convert.StatusComplete:
		return colorFor(color.FgGreen)(status)
	case convert.StatusPartial:
		return colorFor(color.FgYellow)(status)
	case convert.StatusFailed:
		return colorFor(color.FgRed)(status)
	}

	return string(status)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}

	return "no"
}

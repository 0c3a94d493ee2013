// Copyright 2017-25 the original author or authors.
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

// Package info implements the "pbf info" subcommand: print a file's header
// block and, with -e/--extended, scan every primitive block to also report
// node/way/relation counts.
package info

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/destel/rill"
	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"go.pbfreader.dev/pbf"
	"go.pbfreader.dev/pbf/cmd/pbf/cli"
	"go.pbfreader.dev/pbf/model"
)

var out io.Writer = os.Stdout

type extendedHeader struct {
	*model.Header

	NodeCount     int64
	WayCount      int64
	RelationCount int64
}

var inputFile *os.File

func init() {
	cli.RootCmd.AddCommand(infoCmd)

	flags := infoCmd.Flags()
	flags.BoolP("json", "j", false, "format information in JSON")
	flags.Uint16P("workers", "w", uint16(runtime.GOMAXPROCS(-1)), "number of workers to use for extended scanning")
	flags.BoolP("extended", "e", false, "provide extended information (scans entire file)")
	flags.VarP(cli.NewReaderValue(os.Stdin, &inputFile, "file"), "input", "i",
		"input file (alternative to the positional argument; defaults to stdin)")
}

var infoCmd = &cobra.Command{
	Use:   "info [<OSM file>]",
	Short: "Print information about an OSM file",
	Long:  "Print information about an OSM file",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f := inputFile

		if len(args) == 1 {
			opened, err := os.Open(args[0])
			if err != nil {
				log.Fatal(err)
			}

			f = opened
		}

		in, err := cli.WrapInputFile(f)
		if err != nil {
			log.Fatal(err)
		}

		flags := cmd.Flags()

		workers, err := flags.GetUint16("workers")
		if err != nil {
			log.Fatal(err)
		}

		extended, err := flags.GetBool("extended")
		if err != nil {
			log.Fatal(err)
		}

		info, err := runInfo(cmd.Context(), in, workers, extended)
		if err != nil {
			log.Fatal(err)
		}

		if err := in.Close(); err != nil {
			log.Fatal(err)
		}

		jsonfmt, err := flags.GetBool("json")
		if err != nil {
			log.Fatal(err)
		}

		if jsonfmt {
			renderJSON(info, extended)
		} else {
			renderTxt(info, extended)
		}
	},
}

// runInfo reads the header block from in and, when extended is true, also
// walks every primitive block to count nodes, ways, and relations. Counting
// is fanned out across workers goroutines, one per in-flight primitive
// block, with partial counts merged back through rill.Try the same way a
// batch decode reports per-item errors. Canceling ctx stops the scan early
// and returns ctx.Err() (or whatever partial error already won the race).
func runInfo(ctx context.Context, in io.Reader, workers uint16, extended bool) (*extendedHeader, error) {
	rd, err := pbf.Open(in)
	if err != nil {
		return nil, err
	}

	header, err := rd.Header()
	if err != nil {
		return nil, err
	}

	info := &extendedHeader{Header: header}

	if extended {
		counts, err := countPrimitives(ctx, rd, workers)
		if err != nil {
			return nil, err
		}

		info.NodeCount = counts.nodes
		info.WayCount = counts.ways
		info.RelationCount = counts.relations
	}

	return info, nil
}

type primitiveCounts struct {
	nodes, ways, relations int64
}

func countPrimitives(ctx context.Context, rd *pbf.Reader, workers uint16) (primitiveCounts, error) {
	if workers < 1 {
		workers = 1
	}

	blocks := make(chan *pbf.LazyBlock, workers)
	results := make(chan rill.Try[primitiveCounts], workers)

	var wg sync.WaitGroup

	wg.Add(int(workers))

	for i := uint16(0); i < workers; i++ {
		go func() {
			defer wg.Done()

			for lb := range blocks {
				counts, err := countBlock(lb)
				if err != nil {
					slog.Error("unable to parse block", "error", err)
					results <- rill.Try[primitiveCounts]{Error: err}

					continue
				}

				results <- rill.Try[primitiveCounts]{Value: counts}
			}
		}()
	}

	go func() {
		defer close(blocks)

		for {
			select {
			case <-ctx.Done():
				results <- rill.Try[primitiveCounts]{Error: ctx.Err()}

				return
			default:
			}

			lb, err := rd.NextPrimitiveBlock()
			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				slog.Error("unable to read blob", "error", err)
				results <- rill.Try[primitiveCounts]{Error: err}

				return
			}

			select {
			case blocks <- lb:
			case <-ctx.Done():
				lb.Close()
				results <- rill.Try[primitiveCounts]{Error: ctx.Err()}

				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var total primitiveCounts

	var firstErr error

	for r := range results {
		if r.Error != nil {
			if firstErr == nil {
				firstErr = r.Error
			}

			continue
		}

		total.nodes += r.Value.nodes
		total.ways += r.Value.ways
		total.relations += r.Value.relations
	}

	return total, firstErr
}

func countBlock(lb *pbf.LazyBlock) (primitiveCounts, error) {
	blk, err := lb.Decode()
	if err != nil {
		return primitiveCounts{}, err
	}

	var c primitiveCounts

	for p := range blk.Primitives().All() {
		switch p.Type {
		case model.PrimitiveNode:
			c.nodes++
		case model.PrimitiveWay:
			c.ways++
		case model.PrimitiveRelation:
			c.relations++
		}
	}

	return c, nil
}

func renderJSON(info *extendedHeader, extended bool) {
	var v interface{}
	if extended {
		v = info
	} else {
		v = info.Header
	}

	b, err := json.Marshal(v)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Fprint(out, string(b))
}

func renderTxt(info *extendedHeader, extended bool) {
	fmt.Fprintf(out, "BoundingBox: %s\n", info.BoundingBox)
	fmt.Fprintf(out, "RequiredFeatures: %s\n", strings.Join(info.RequiredFeatures, ", "))
	fmt.Fprintf(out, "OptionalFeatures: %v\n", strings.Join(info.OptionalFeatures, ", "))
	fmt.Fprintf(out, "WritingProgram: %s\n", info.WritingProgram)
	fmt.Fprintf(out, "Source: %s\n", info.Source)
	fmt.Fprintf(out, "OsmosisReplicationTimestamp: %s\n", info.OsmosisReplicationTimestamp.UTC().Format(time.RFC3339))
	fmt.Fprintf(out, "OsmosisReplicationSequenceNumber: %d\n", info.OsmosisReplicationSequenceNumber)
	fmt.Fprintf(out, "OsmosisReplicationBaseURL: %s\n", info.OsmosisReplicationBaseURL)

	if extended {
		fmt.Fprintf(out, "NodeCount: %s\n", humanize.Comma(info.NodeCount))
		fmt.Fprintf(out, "WayCount: %s\n", humanize.Comma(info.WayCount))
		fmt.Fprintf(out, "RelationCount: %s\n", humanize.Comma(info.RelationCount))
	}
}

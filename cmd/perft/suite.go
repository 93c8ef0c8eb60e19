package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/lgbarn/chess-platform-go/internal/engine"
	"github.com/lgbarn/chess-platform-go/internal/errors"
	"github.com/lgbarn/chess-platform-go/internal/worker"
)

// DepthCount is one expected perft result.
type DepthCount struct {
	Depth int
	Nodes uint64
}

// SuiteEntry is one line of a perft suite file.
type SuiteEntry struct {
	Line   int
	FEN    string
	Depths []DepthCount
}

// depthResult is a counted depth alongside its expectation.
type depthResult struct {
	DepthCount
	Got uint64
}

func (d depthResult) ok() bool { return d.Got == d.Nodes }

type suiteResult struct {
	depths []depthResult
}

// parseSuiteLine parses "<fen> ;D1 20 ;D2 400". Four-field FENs get
// default move clocks.
func parseSuiteLine(line string) (SuiteEntry, error) {
	parts := strings.Split(line, ";")
	fen := strings.TrimSpace(parts[0])
	if len(strings.Fields(fen)) == 4 {
		fen += " 0 1"
	}
	entry := SuiteEntry{FEN: fen}

	for _, part := range parts[1:] {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 || len(fields[0]) < 2 || fields[0][0] != 'D' {
			return SuiteEntry{}, errors.Wrapf(errors.ErrInvalidConfig, "suite depth %q", strings.TrimSpace(part))
		}
		d, err := strconv.Atoi(fields[0][1:])
		if err != nil || d < 1 {
			return SuiteEntry{}, errors.Wrapf(errors.ErrInvalidConfig, "suite depth %q", strings.TrimSpace(part))
		}
		n, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return SuiteEntry{}, errors.Wrapf(errors.ErrInvalidConfig, "suite depth %q", strings.TrimSpace(part))
		}
		entry.Depths = append(entry.Depths, DepthCount{Depth: d, Nodes: n})
	}
	if len(entry.Depths) == 0 {
		return SuiteEntry{}, errors.Wrapf(errors.ErrInvalidConfig, "no depths in %q", line)
	}
	return entry, nil
}

// loadSuite reads suite entries, skipping blank lines and # comments.
func loadSuite(r io.Reader) ([]SuiteEntry, error) {
	var entries []SuiteEntry
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := parseSuiteLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		entry.Line = lineNum
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// runSuite counts every entry up to maxDepth on a worker pool and reports
// the results in file order. It returns the number of failed entries.
func runSuite(ctx context.Context, w io.Writer, entries []SuiteEntry, maxDepth, numWorkers int) (int, error) {
	pool := worker.NewPool(numWorkers, len(entries)+1, func(item worker.WorkItem) worker.ProcessResult {
		entry := item.Payload.(SuiteEntry)
		res, err := countEntry(ctx, entry, maxDepth)
		return worker.ProcessResult{Index: item.Index, Value: res, Error: err}
	})
	pool.Start()

	go func() {
		defer pool.Close()
		for i, e := range entries {
			if ctx.Err() != nil {
				pool.Stop()
				return
			}
			pool.Submit(worker.WorkItem{Index: i, Payload: e})
		}
	}()

	var results []worker.ProcessResult
	for r := range pool.Results() {
		results = append(results, r)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })

	failures := 0
	for _, r := range results {
		entry := entries[r.Index]
		if r.Error != nil {
			failures++
			fmt.Fprintf(w, "line %d: FAIL %v\n", entry.Line, r.Error)
			continue
		}
		res := r.Value.(suiteResult)
		failed := false
		var sb strings.Builder
		for _, d := range res.depths {
			if d.ok() {
				fmt.Fprintf(&sb, " D%d ok", d.Depth)
				continue
			}
			failed = true
			fmt.Fprintf(&sb, " D%d got %d want %d", d.Depth, d.Got, d.Nodes)
		}
		status := "ok"
		if failed {
			failures++
			status = "FAIL"
		}
		fmt.Fprintf(w, "line %d: %s%s\n", entry.Line, status, sb.String())
	}
	fmt.Fprintf(w, "%d positions, %d failed\n", len(results), failures)
	return failures, nil
}

// countEntry runs perft for each expected depth no deeper than maxDepth.
func countEntry(ctx context.Context, entry SuiteEntry, maxDepth int) (suiteResult, error) {
	pos, err := engine.NewPositionFromFEN(entry.FEN)
	if err != nil {
		return suiteResult{}, err
	}
	var res suiteResult
	for _, d := range entry.Depths {
		if d.Depth > maxDepth {
			continue
		}
		if err := ctx.Err(); err != nil {
			return suiteResult{}, err
		}
		res.depths = append(res.depths, depthResult{DepthCount: d, Got: engine.Perft(pos, d.Depth)})
	}
	return res, nil
}

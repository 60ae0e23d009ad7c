// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/yeetrun/argbind/pkg/tui"
	"golang.org/x/sync/errgroup"
)

// batchLine is a non-blank input line and its 1-based line number.
type batchLine struct {
	n    int
	text string
}

func readBatch(r io.Reader) ([]batchLine, error) {
	var lines []batchLine
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, batchLine{n: n, text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch: %w", err)
	}
	return lines, nil
}

// runBatch binds every line of path concurrently and prints the outcomes in
// input order. path "-" reads st.in.
func (c *checker) runBatch(st streams, path string, jobs int) int {
	r := st.in
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			log.Printf("failed to open batch: %v", err)
			return exitUsage
		}
		defer f.Close()
		r = f
	}
	lines, err := readBatch(r)
	if err != nil {
		log.Printf("%v", err)
		return exitUsage
	}
	if jobs <= 0 {
		jobs = defaultJobs
	}

	var prog *tui.Progress
	if st.progress && len(lines) > 1 {
		prog = tui.NewProgress(st.errOut, st.color, "binding", len(lines))
		prog.Start()
	}
	outs := make([]outcome, len(lines))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, l := range lines {
		g.Go(func() error {
			outs[i] = c.bindLine(l.text)
			if prog != nil {
				prog.Done()
			}
			return nil
		})
	}
	g.Wait()
	if prog != nil {
		prog.Stop()
	}

	code := exitOK
	for i, l := range lines {
		tui.Rule(st.out, st.color, st.width, fmt.Sprintf("line %d", l.n))
		if c.write(st, outs[i], true) != exitOK {
			code = exitFailed
		}
	}
	return code
}

/*
Copyright (C) 2023-2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Command cfinspect is an interactive REPL for inspecting the column
// table: listing descriptors, walking cache-sharing decisions, and
// previewing the options a column would be opened with, all against the
// in-memory fakeengine rather than a real database.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"github.com/relaydb/cfkv/cache"
	"github.com/relaydb/cfkv/column"
	"github.com/relaydb/cfkv/compression"
	"github.com/relaydb/cfkv/config"
	"github.com/relaydb/cfkv/engine"
	"github.com/relaydb/cfkv/fakeengine"
)

const (
	newPrompt    = "\033[32mcf>\033[0m "
	resultPrompt = "\033[31m=\033[0m "
)

type session struct {
	reg *cache.Registry
	cfg config.Global
	eng *fakeengine.Engine
}

func newSession(cfg config.Global) (*session, error) {
	shardBits, err := column.ValidateShardCap(cfg.SharedCacheShards)
	if err != nil {
		return nil, fmt.Errorf("shared_cache_shards: %w", err)
	}
	s := &session{reg: cache.NewRegistry(), cfg: cfg, eng: fakeengine.New()}
	s.reg.InitShared(cfg.SharedCacheCapacity, shardBits)
	return s, nil
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults built in if omitted)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cfinspect:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	s, err := newSession(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cfinspect:", err)
		os.Exit(1)
	}

	l, err := readline.NewEx(&readline.Config{
		Prompt:            newPrompt,
		HistoryFile:       ".cfinspect-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()
	l.CaptureExitSignal()

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			panic(err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					fmt.Println("panic:", r)
				}
			}()
			var b bytes.Buffer
			s.run(&b, line)
			fmt.Print(resultPrompt)
			fmt.Println(b.String())
		}()
	}
}

func (s *session) run(w io.Writer, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "list":
		for _, d := range column.Table {
			fmt.Fprintf(w, "%-24s compaction=%-10s cache=%s shards=%d\n", d.Name, d.Compaction, dispString(d.CacheDisp), d.CacheShards)
		}
	case "describe":
		if len(fields) != 2 {
			fmt.Fprintln(w, "usage: describe <column>")
			return
		}
		d, ok := column.ByName(fields[1])
		if !ok {
			fmt.Fprintf(w, "no such column %q\n", fields[1])
			return
		}
		fmt.Fprintf(w, "%+v\n", d)
	case "provision":
		resolved, err := cache.ProvisionTable(s.reg, column.Table, s.cfg.ProvisionConfig())
		if err != nil {
			fmt.Fprintln(w, "error:", err)
			return
		}
		for _, d := range column.Table {
			c := resolved[d.Name]
			if c == nil {
				fmt.Fprintf(w, "%-24s uncached\n", d.Name)
				continue
			}
			fmt.Fprintf(w, "%-24s cache=%s capacity=%d shards=2^%d\n", d.Name, c.Name(), c.Capacity(), c.ShardBits())
		}
	case "configure":
		if len(fields) != 2 {
			fmt.Fprintln(w, "usage: configure <column>")
			return
		}
		d, ok := column.ByName(fields[1])
		if !ok {
			fmt.Fprintf(w, "no such column %q\n", fields[1])
			return
		}
		patched := d.Patch(s.cfg.CompressionConfig())
		c, err := cache.Provision(s.reg, patched, s.cfg.ProvisionConfig())
		if err != nil {
			fmt.Fprintln(w, "error:", err)
			return
		}
		cf := s.eng.Open(d.Name)
		opts, err := engine.Configure(patched, cache.AsHandle(c), s.eng, cf)
		if err != nil {
			fmt.Fprintln(w, "error:", err)
			return
		}
		fmt.Fprintf(w, "%+v\n", opts)
	case "demo-put":
		if len(fields) != 3 {
			fmt.Fprintln(w, "usage: demo-put <column> <value>")
			return
		}
		cf := s.eng.Open(fields[1])
		key := uuid.NewString()
		if err := cf.Put([]byte(key), []byte(fields[2])); err != nil {
			fmt.Fprintln(w, "error:", err)
			return
		}
		fmt.Fprintf(w, "inserted under key %s in %q (%d keys now)\n", key, fields[1], cf.Len())
	case "export":
		if len(fields) != 3 {
			fmt.Fprintln(w, "usage: export <column> <key>")
			return
		}
		cf := s.eng.Open(fields[1])
		val, ok := cf.Get([]byte(fields[2]))
		if !ok {
			fmt.Fprintf(w, "no such key %q in %q\n", fields[2], fields[1])
			return
		}
		var buf bytes.Buffer
		if err := compression.XZ().Compress(&buf, val); err != nil {
			fmt.Fprintln(w, "error:", err)
			return
		}
		fmt.Fprintf(w, "exported %d bytes as %d bytes via xz\n", len(val), buf.Len())
	case "help":
		fmt.Fprintln(w, "commands: list, describe <col>, provision, configure <col>, demo-put <col> <val>, export <col> <key>, help")
	default:
		fmt.Fprintf(w, "unknown command %q (try help)\n", fields[0])
	}
}

func dispString(d column.CacheDisp) string {
	switch d.Kind {
	case column.CacheUnique:
		return "unique"
	case column.CacheSharedWith:
		return "shared-with:" + d.Other
	case column.CacheShared:
		return "shared"
	default:
		return "unknown"
	}
}

package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/akmistry/go-gaps"
	"github.com/akmistry/go-gaps/index"
	"github.com/akmistry/go-gaps/internal/app/gapscan"
	"github.com/akmistry/go-gaps/internal/sparse"
)

var (
	startFlag   = flag.String("start", "0", "Start offset of the scan window")
	endFlag     = flag.String("end", "", "End offset of the scan window (defaults to the file size)")
	idsFlag     = flag.Bool("ids", false, "Scan directories of numbered chunk files for missing IDs")
	verboseFlag = flag.Bool("verbose", false, "Verbose logging")
)

func scanFile(path string, start, end uint64, hasEnd bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	size := fi.Size()

	win := gaps.Span[int64]{Lo: int64(start), Hi: size}
	if hasEnd && int64(end) < size {
		win.Hi = int64(end)
	}
	slog.Debug("scanning file", "path", path, "size", size, "window", win)

	var holes, holeBytes int64
	for hole, err := range sparse.Holes(sparse.NewFile(f), win) {
		if err != nil {
			return err
		}
		fmt.Printf("%s: hole [%d, %d) %d bytes\n", path, hole.Lo, hole.Hi, hole.Hi-hole.Lo)
		holes++
		holeBytes += hole.Hi - hole.Lo
	}
	fmt.Printf("%s: %d holes, %d bytes in window %v\n", path, holes, holeBytes, win)
	return nil
}

func scanChunkDir(dir string, start, end uint64, hasEnd bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	idx := index.NewTreeIndex[uint64]()
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		id, err := strconv.ParseUint(ent.Name(), 10, 64)
		if err != nil {
			slog.Debug("skipping non-numeric entry", "dir", dir, "name", ent.Name())
			continue
		}
		idx.Insert(id)
	}

	win := gaps.From(start)
	if hasEnd {
		win = gaps.Between(start, end)
	} else if max, ok := idx.Max(); ok {
		win = gaps.Between(start, max+1)
	} else {
		fmt.Printf("%s: no chunks\n", dir)
		return nil
	}

	var missing uint64
	for g := range gaps.In(idx, win) {
		if g.Hi == g.Lo+1 {
			fmt.Printf("%s: missing %d\n", dir, g.Lo)
		} else {
			fmt.Printf("%s: missing %d-%d\n", dir, g.Lo, g.Hi-1)
		}
		missing += g.Hi - g.Lo
	}
	fmt.Printf("%s: %d chunks, %d missing in window %v\n", dir, idx.Len(), missing, win)
	return nil
}

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		log.Print("Usage: gapscan [-ids] <FILE|DIR>...")
		os.Exit(1)
	}

	if *verboseFlag {
		slog.SetDefault(slog.New(slog.NewTextHandler(
			os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	start, err := gapscan.ParseSizeString(*startFlag)
	if err != nil || start > math.MaxInt64 {
		log.Printf("Invalid start flag: %s", *startFlag)
		os.Exit(1)
	}
	var end uint64
	hasEnd := *endFlag != ""
	if hasEnd {
		end, err = gapscan.ParseSizeString(*endFlag)
		if err != nil || end > math.MaxInt64 {
			log.Printf("Invalid end flag: %s", *endFlag)
			os.Exit(1)
		}
	}

	exitCode := 0
	for _, arg := range flag.Args() {
		if *idsFlag {
			err = scanChunkDir(arg, start, end, hasEnd)
		} else {
			err = scanFile(arg, start, end, hasEnd)
		}
		if err != nil {
			log.Printf("Error scanning %s: %v", arg, err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

// Command bufstress drives random edit storms against the text-buffer
// engine and reports whether its invariants held up.
//
// It opens a synthetic document through the handle registry, applies
// random inserts and removals at random char positions, and periodically
// cross-checks length and line bookkeeping. In verify mode every
// checkpoint also compares the document against a plain []rune mirror
// model, which makes the run a correctness oracle rather than just a
// benchmark. A JSON report is written at the end.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/itsvks/textbuffer/internal/engine/buffer"
	"github.com/itsvks/textbuffer/internal/engine/handle"
	"github.com/itsvks/textbuffer/internal/engine/rope"
)

type options struct {
	Size    int
	Ops     int
	Seed    int64
	Verify  bool
	Report  string
	ConfigP string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if opts.ConfigP != "" {
		if err := loadConfig(opts.ConfigP, &opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	doc := generateDocument(rng, opts.Size)

	reg := handle.NewRegistry()
	h, err := reg.OpenReader(strings.NewReader(doc))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open document: %v\n", err)
		return 1
	}
	defer reg.Close(h)

	buf, err := reg.Buffer(h)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: resolve handle: %v\n", err)
		return 1
	}

	// Parallel rope value, fed the same edits, so the run also checks
	// that the raw structure stays balanced and agrees with the buffer.
	shadow := rope.FromString(doc)

	var model []rune
	if opts.Verify {
		model = []rune(doc)
	}

	start := time.Now()
	inserted, removed := int64(0), int64(0)

	for i := 0; i < opts.Ops; i++ {
		length := buf.Len()
		if rng.Intn(100) < 60 || length == 0 {
			at := buffer.CharOffset(rng.Int63n(length + 1))
			text := randomSnippet(rng)
			if err := buf.Insert(at, text); err != nil {
				fmt.Fprintf(os.Stderr, "Error: insert at %d: %v\n", at, err)
				return 1
			}
			shadow = shadow.Insert(rope.CharOffset(at), text)
			inserted += int64(len([]rune(text)))
			if opts.Verify {
				model = spliceRunes(model, int(at), 0, []rune(text))
			}
		} else {
			from := buffer.CharOffset(rng.Int63n(length))
			n := buffer.CharOffset(rng.Intn(64) + 1)
			to := from + n
			if to > length {
				to = length
			}
			if err := buf.Remove(from, to); err != nil {
				fmt.Fprintf(os.Stderr, "Error: remove [%d, %d): %v\n", from, to, err)
				return 1
			}
			shadow = shadow.Delete(rope.CharOffset(from), rope.CharOffset(to))
			removed += int64(to - from)
			if opts.Verify {
				model = spliceRunes(model, int(from), int(to-from), nil)
			}
		}

		if (i+1)%1000 == 0 || i == opts.Ops-1 {
			if err := checkpoint(buf, shadow, model, opts.Verify); err != nil {
				fmt.Fprintf(os.Stderr, "Error: invariant violated after %d ops: %v\n", i+1, err)
				return 1
			}
		}
	}
	elapsed := time.Since(start)

	report, err := buildReport(opts, buf, shadow, inserted, removed, elapsed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: build report: %v\n", err)
		return 1
	}

	if opts.Report == "" || opts.Report == "-" {
		fmt.Println(report)
	} else if err := os.WriteFile(opts.Report, []byte(report+"\n"), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: write report: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() options {
	var opts options
	flag.IntVar(&opts.Size, "size", 4<<20, "Approximate size of the generated document in bytes")
	flag.IntVar(&opts.Ops, "ops", 10000, "Number of random edit operations")
	flag.Int64Var(&opts.Seed, "seed", 1, "Random seed")
	flag.BoolVar(&opts.Verify, "verify", false, "Cross-check every checkpoint against a mirror model (slow)")
	flag.StringVar(&opts.Report, "report", "-", "Report output path, or - for stdout")
	flag.StringVar(&opts.ConfigP, "config", "", "Optional JSON scenario file overriding flags")
	flag.Parse()
	return opts
}

// loadConfig overrides options from a JSON scenario file. Only keys that
// are present override; everything else keeps its flag value.
func loadConfig(path string, opts *options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("config %s: not valid JSON", path)
	}

	if v := gjson.GetBytes(data, "size"); v.Exists() {
		opts.Size = int(v.Int())
	}
	if v := gjson.GetBytes(data, "ops"); v.Exists() {
		opts.Ops = int(v.Int())
	}
	if v := gjson.GetBytes(data, "seed"); v.Exists() {
		opts.Seed = v.Int()
	}
	if v := gjson.GetBytes(data, "verify"); v.Exists() {
		opts.Verify = v.Bool()
	}
	return nil
}

// checkpoint asserts the engine's observable state is self-consistent and
// (in verify mode) equal to the mirror model.
func checkpoint(buf *buffer.Buffer, shadow rope.Rope, model []rune, verify bool) error {
	if got, want := buf.Len(), buffer.CharOffset(shadow.Len()); got != want {
		return fmt.Errorf("length: buffer %d, shadow rope %d", got, want)
	}
	if got, want := buf.LineCount(), shadow.LineCount(); got != want {
		return fmt.Errorf("line count: buffer %d, shadow rope %d", got, want)
	}

	if err := checkBalance(shadow); err != nil {
		return err
	}

	if verify {
		text := buf.String()
		if text != string(model) {
			return fmt.Errorf("content diverged from mirror model (len %d vs %d)", len(text), len(string(model)))
		}
		wantLines := uint32(strings.Count(text, "\n") + 1)
		if got := buf.LineCount(); got != wantLines {
			return fmt.Errorf("line count %d, want %d", got, wantLines)
		}
	}
	return nil
}

// checkBalance verifies the tree height stays logarithmic in the chunk
// count, the bound random edits must not erode.
func checkBalance(r rope.Rope) error {
	chunks := r.ChunkCount()
	if chunks <= 1 {
		return nil
	}
	limit := int(math.Ceil(math.Log2(float64(chunks)))) + 4
	if h := r.Height(); h > limit {
		return fmt.Errorf("height %d exceeds bound %d for %d chunks", h, limit, chunks)
	}
	return nil
}

func buildReport(opts options, buf *buffer.Buffer, shadow rope.Rope, inserted, removed int64, elapsed time.Duration) (string, error) {
	report := "{}"
	var err error

	set := func(path string, value any) {
		if err == nil {
			report, err = sjson.Set(report, path, value)
		}
	}

	set("scenario.size", opts.Size)
	set("scenario.ops", opts.Ops)
	set("scenario.seed", opts.Seed)
	set("scenario.verify", opts.Verify)
	set("result.chars", buf.Len())
	set("result.bytes", buf.LenBytes())
	set("result.lines", buf.LineCount())
	set("result.charsInserted", inserted)
	set("result.charsRemoved", removed)
	set("result.treeHeight", shadow.Height())
	set("result.chunks", shadow.ChunkCount())
	set("result.elapsedMs", elapsed.Milliseconds())
	if opts.Ops > 0 {
		set("result.nsPerOp", elapsed.Nanoseconds()/int64(opts.Ops))
	}

	return report, err
}

// generateDocument produces realistic line-structured text of roughly the
// requested byte size, with enough multi-byte content to exercise
// code-point boundary handling.
func generateDocument(rng *rand.Rand, size int) string {
	words := []string{
		"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog",
		"editor", "buffer", "rope", "chunk", "línea", "日本語", "🎉",
	}

	var sb strings.Builder
	sb.Grow(size)
	lineLen := 0

	for sb.Len() < size {
		w := words[rng.Intn(len(words))]
		sb.WriteString(w)
		lineLen += len(w)
		if lineLen > 60 {
			sb.WriteByte('\n')
			lineLen = 0
		} else {
			sb.WriteByte(' ')
			lineLen++
		}
	}
	return sb.String()
}

func randomSnippet(rng *rand.Rand) string {
	snippets := []string{
		"x", "hello", "word ", "\n", "multi\nline\n", "日本", "é", "🚀", "tab\there",
	}
	return snippets[rng.Intn(len(snippets))]
}

func spliceRunes(model []rune, at, del int, ins []rune) []rune {
	out := make([]rune, 0, len(model)-del+len(ins))
	out = append(out, model[:at]...)
	out = append(out, ins...)
	out = append(out, model[at+del:]...)
	return out
}

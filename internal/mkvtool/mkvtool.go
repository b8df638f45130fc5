package mkvtool

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
)

const (
	DefaultBin = "mkvmerge"
	InstallURL = "https://mkvtoolnix.download/downloads.html"

	// SegmentExt is the extension mkvmerge writes for every segment.
	SegmentExt = ".mkv"
)

// RangeMode selects how mkvmerge reads cut_from/cut_to.
type RangeMode int

const (
	Frames RangeMode = iota
	Timecodes
)

func (m RangeMode) splitPrefix() string {
	if m == Timecodes {
		return "parts"
	}
	return "parts-frames"
}

func (m RangeMode) String() string {
	if m == Timecodes {
		return "timecodes"
	}
	return "frames"
}

// NotFoundError is returned by Check when the executable cannot be found.
type NotFoundError struct {
	Bin        string
	InstallURL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found\ndownload the latest MKVToolNix release and put it on your PATH\n%s", e.Bin, e.InstallURL)
}

// InvocationError is a failed mkvmerge run. ExitCode is -1 when the process
// could not be started at all.
type InvocationError struct {
	Args     []string
	ExitCode int
	Output   string
	Err      error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("non-zero return code %d for command %s\n%s", e.ExitCode, strings.Join(e.Args, " "), e.Output)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Tool runs mkvmerge.
type Tool struct {
	Bin string
	// SplitWarnCodes and MergeWarnCodes list exit codes that mean
	// "finished with warnings" for the respective operation.
	SplitWarnCodes []int
	MergeWarnCodes []int
	DryRun         bool
}

// New returns a Tool for bin. mkvmerge exits with 1 on warnings, which is
// accepted for merges only.
func New(bin string) *Tool {
	if bin == "" {
		bin = DefaultBin
	}
	return &Tool{
		Bin:            bin,
		MergeWarnCodes: []int{1},
	}
}

// Check verifies the executable can be found.
func (t *Tool) Check() error {
	if _, err := exec.LookPath(t.Bin); err != nil {
		return &NotFoundError{Bin: t.Bin, InstallURL: InstallURL}
	}
	return nil
}

// Version returns the first line of `mkvmerge --version`.
func (t *Tool) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, t.Bin, "--version").Output()
	if err != nil {
		return "", err
	}
	line, _, _ := bufio.NewReader(bytes.NewReader(out)).ReadLine()
	return string(line), nil
}

// Split extracts the from-to range of in into out.
//
//	mkvmerge --output out --split parts-frames:0-1000 in
//	mkvmerge --output out --split parts:00:01:20-00:02:45 in
func (t *Tool) Split(ctx context.Context, in, out, from, to string, mode RangeMode) error {
	args := []string{
		"--output", out,
		"--split", fmt.Sprintf("%s:%s-%s", mode.splitPrefix(), from, to),
		in,
	}
	return t.run(ctx, args, t.SplitWarnCodes)
}

// Merge appends parts, in order, into out.
//
//	mkvmerge --output full.mkv file1.mkv +file2.mkv
func (t *Tool) Merge(ctx context.Context, out string, parts ...string) error {
	if len(parts) == 0 {
		return fmt.Errorf("merge %s: no parts", out)
	}
	args := []string{"--output", out, parts[0]}
	for _, p := range parts[1:] {
		args = append(args, "+"+p)
	}
	return t.run(ctx, args, t.MergeWarnCodes)
}

func (t *Tool) run(ctx context.Context, args []string, warnCodes []int) error {
	full := append([]string{t.Bin}, args...)
	log.Printf("running %s", strings.Join(full, " "))

	if t.DryRun {
		log.Printf("[DryRun] Command: %s %v", t.Bin, args)
		return nil
	}

	cmd := exec.CommandContext(ctx, t.Bin, args...)
	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return &InvocationError{Args: full, ExitCode: -1, Output: string(output), Err: err}
	}

	code := exitErr.ExitCode()
	if slices.Contains(warnCodes, code) {
		log.Printf("⚠️ %s finished with warnings (exit %d)", t.Bin, code)
		return nil
	}
	return &InvocationError{Args: full, ExitCode: code, Output: string(output), Err: err}
}

// SegmentPath names the index-th (1-based) segment of target:
// b.mkv -> b-1.mkv, b-2.mkv, ...
func SegmentPath(target string, index int) string {
	base := strings.TrimSuffix(target, filepath.Ext(target))
	return fmt.Sprintf("%s-%d%s", base, index, SegmentExt)
}

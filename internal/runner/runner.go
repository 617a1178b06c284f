// Package runner wraps process execution and stdio capture — the engine's
// "process execution and stdio capture" external collaborator (§1). It
// owns the only os/exec usage in the project; internal/engine never spawns
// processes itself.
package runner

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// Result is one captured invocation, ready to hand to the engine's Apply.
type Result struct {
	Stdout   string
	Stderr   string
	Combined string
	ExitCode int64
	Duration time.Duration
	// RSS is the peak resident set size sampled during execution, in
	// bytes. Zero when timing was not requested or sampling failed.
	RSS uint64
}

// Options controls how Run captures a command.
type Options struct {
	// Timing enables process RSS sampling via gopsutil (--timing).
	Timing bool
}

// Run executes name with args, capturing stdout and stderr both separately
// and interleaved into Combined (filters most commonly key off the
// interleaved stream, since that is what a terminal user actually sees).
func Run(ctx context.Context, name string, args []string, opts Options) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Env = os.Environ()

	var stdout, stderr, combined bytes.Buffer
	cmd.Stdout = teeWriter(&stdout, &combined)
	cmd.Stderr = teeWriter(&stderr, &combined)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	var rss uint64
	done := make(chan struct{})
	stopped := make(chan struct{})
	if opts.Timing {
		go sampleRSS(cmd.Process.Pid, done, stopped, &rss)
	} else {
		close(stopped)
	}

	err := cmd.Wait()
	close(done)
	<-stopped // wait for the sampler to stop touching rss before reading it

	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Combined: combined.String(),
		Duration: time.Since(start),
		RSS:      rss,
	}
	res.ExitCode = exitCodeOf(err)
	if _, ok := err.(*exec.ExitError); ok || err == nil {
		return res, nil
	}
	return res, err
}

// exitCodeOf extracts the wrapped command's exit code: 0 on success, the
// process's own code on a non-zero exit, or -1 if the process could not be
// started/waited on for reasons other than a non-zero exit (§6 "the
// wrapped command's exit code is propagated unchanged").
func exitCodeOf(err error) int64 {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return int64(exitErr.ExitCode())
	}
	return -1
}

// sampleRSS polls the target pid's resident set size at a fixed interval
// until done is closed, keeping the peak value seen (gopsutil/v4, wired
// per the --timing flag in §6's CLI surface).
func sampleRSS(pid int, done <-chan struct{}, stopped chan<- struct{}, peak *uint64) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	defer close(stopped)
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			proc, err := process.NewProcess(int32(pid))
			if err != nil {
				continue
			}
			mem, err := proc.MemoryInfo()
			if err != nil || mem == nil {
				continue
			}
			if mem.RSS > *peak {
				*peak = mem.RSS
			}
		}
	}
}

// teeWriter returns a writer that fans out to both dsts.
func teeWriter(dsts ...*bytes.Buffer) multiBufferWriter {
	return multiBufferWriter{dsts: dsts}
}

type multiBufferWriter struct {
	dsts []*bytes.Buffer
}

func (w multiBufferWriter) Write(p []byte) (int, error) {
	for _, d := range w.dsts {
		d.Write(p)
	}
	return len(p), nil
}

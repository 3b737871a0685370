package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"
)

type Invoker struct {
	ClearCaches bool
	// Timeout of a single run, zero blocks until the child exits.
	Timeout time.Duration
	Stdout  io.Writer
	Stderr  io.Writer
}

// dropCachesCmds lists the commands which flush the page cache on goos, so
// that every run starts cold.
func dropCachesCmds(goos string) ([][]string, error) {
	switch goos {
	case "linux":
		return [][]string{{"sync"}, {"sh", "-c", "echo 3 | sudo tee /proc/sys/vm/drop_caches"}}, nil
	case "darwin":
		return [][]string{{"sync"}, {"purge"}}, nil
	}
	return nil, fmt.Errorf("dropping caches is not supported on %v", goos)
}

func (i *Invoker) clearCachesIfNeeded() {
	if !i.ClearCaches {
		return
	}
	cmds, err := dropCachesCmds(runtime.GOOS)
	if err != nil {
		Logger.Warnf("skip cache drop: %v", err)
		return
	}
	for _, args := range cmds {
		Logger.Debugf("drop caches: %v", args)
		out, err := exec.Command(args[0], args[1:]...).CombinedOutput()
		if err != nil {
			Logger.Warnf("failed to drop caches with %v: err=%v, out=%s", args, err, out)
			return
		}
	}
}

func (i *Invoker) runCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("empty command")
	}
	if i.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.WaitDelay = time.Second
	cmd.Stdout = i.Stdout
	cmd.Stderr = i.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	err := cmd.Run()
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("err=%w, ctx=%v", err, ctx.Err())
	}
	return err
}

// Run executes one blocking command. Failures are logged and reported in
// the outcome, they never stop the caller's batch.
func (i *Invoker) Run(ctx context.Context, title string, args []string) RunOutcome {
	i.clearCachesIfNeeded()

	Logger.Infof("running %v: %v", title, args)
	start := time.Now()
	err := i.runCmd(ctx, args)
	elapsed := time.Since(start)

	if err != nil {
		Logger.Errorf("failed %v after %v: %v", title, elapsed, err)
		return RunOutcome{TotalTime: elapsed.Seconds(), Err: fmt.Errorf("%v failed: %w", title, err)}
	}
	Logger.Infof("%v completed in %v", title, elapsed)
	return RunOutcome{TotalTime: elapsed.Seconds()}
}

package executor

import (
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/kbukum/datakit/errors"
)

// IsWorker reports whether this process was launched as a datakit executor
// worker.
func IsWorker() bool {
	return os.Getenv(workerEnv) != ""
}

// WorkerMain services generator tasks from stdin until EOF, writing replies
// to stdout. Binaries that use multi-process executors must divert to it
// before any other work:
//
//	func main() {
//	    if executor.IsWorker() {
//	        if err := executor.WorkerMain(); err != nil {
//	            os.Exit(1)
//	        }
//	        return
//	    }
//	    // regular entry point
//	}
//
// Generators are resolved against the registry, which init functions have
// already populated by the time main runs.
func WorkerMain() error {
	return workerLoop(context.Background(), os.Stdin, os.Stdout)
}

func workerLoop(ctx context.Context, in io.Reader, out io.Writer) error {
	dec := gob.NewDecoder(in)
	enc := gob.NewEncoder(out)

	for {
		var task wireTask
		if err := dec.Decode(&task); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("decoding task: %w", err)
		}

		reply := runTask(ctx, task)
		if err := enc.Encode(reply); err != nil {
			return fmt.Errorf("encoding reply: %w", err)
		}
	}
}

func runTask(ctx context.Context, task wireTask) wireReply {
	gen, ok := Lookup(task.Name)
	if !ok {
		return wireReply{
			ErrMsg:  fmt.Sprintf("no generator registered under %q", task.Name),
			ErrCode: string(errors.ErrCodeConfiguration),
		}
	}

	recs, err := gen.Fn(ctx, task.Rec)
	if err != nil {
		return wireReply{
			Recs:    recs,
			ErrMsg:  err.Error(),
			ErrCode: string(errors.CodeOf(err)),
		}
	}
	return wireReply{Recs: recs}
}

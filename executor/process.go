package executor

import (
	"context"
	"encoding/gob"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/logger"
	"github.com/kbukum/datakit/record"
	"github.com/kbukum/datakit/stream"
)

// workerEnv marks a subprocess as a datakit worker. See WorkerMain.
const workerEnv = "DATAKIT_WORKER"

// workerGracePeriod is how long a worker gets between SIGTERM and SIGKILL
// when an iteration is abandoned.
const workerGracePeriod = 5 * time.Second

// MultiProcess runs the generator on n worker subprocesses of the current
// binary. Tasks and results cross the boundary gob-encoded over the workers'
// stdin/stdout; results are rejoined in upstream order. Side effects inside
// workers are invisible to the caller.
//
// The generator must be registered (see Register): closures cannot be
// serialized across processes.
type MultiProcess struct {
	Workers int
}

// NewMultiProcess returns a MultiProcess executor with n workers (minimum 1).
func NewMultiProcess(n int) *MultiProcess {
	if n < 1 {
		n = 1
	}
	return &MultiProcess{Workers: n}
}

// wireTask is one unit of work sent to a worker.
type wireTask struct {
	Name string
	Rec  record.Record
}

// wireReply is a worker's response to one task.
type wireReply struct {
	Recs    []record.Record
	ErrMsg  string
	ErrCode string
}

func (r wireReply) error() error {
	if r.ErrMsg == "" {
		return nil
	}
	if r.ErrCode != "" {
		return &errors.AppError{Code: errors.ErrorCode(r.ErrCode), Message: r.ErrMsg}
	}
	return errors.New(errors.ErrCodeWorkerFailed, r.ErrMsg)
}

type workerProc struct {
	id    string
	cmd   *exec.Cmd
	stdin io.WriteCloser
	enc   *gob.Encoder
	dec   *gob.Decoder
}

func (p *MultiProcess) Execute(ctx context.Context, gen Generator, upstream stream.Iterator) stream.Iterator {
	if gen.Name == "" {
		return stream.Fail(errors.Configuration("multi-process execution requires a registered generator, got an anonymous closure"))
	}

	runCtx, cancel := context.WithCancel(ctx)
	log := logger.WithComponent("executor")

	workers := make([]*workerProc, 0, p.Workers)
	for i := 0; i < p.Workers; i++ {
		w, err := spawnWorker(runCtx)
		if err != nil {
			cancel()
			for _, started := range workers {
				started.shutdown()
			}
			return stream.Fail(errors.WorkerFailed("spawn", err))
		}
		log.Debug("worker started", logger.Fields(logger.FieldWorker, w.id, "generator", gen.Name))
		workers = append(workers, w)
	}

	g, gctx := errgroup.WithContext(runCtx)
	tasks := make(chan poolTask)
	order := make(chan chan poolResult, p.Workers)

	g.Go(func() error {
		defer close(tasks)
		defer close(order)
		for {
			in, ok, err := upstream.Next(gctx)
			if err != nil || !ok {
				if err != nil {
					out := make(chan poolResult, 1)
					out <- poolResult{err: err}
					select {
					case order <- out:
					case <-gctx.Done():
					}
				}
				return nil
			}
			out := make(chan poolResult, 1)
			select {
			case order <- out:
			case <-gctx.Done():
				return nil
			}
			select {
			case tasks <- poolTask{rec: in, out: out}:
			case <-gctx.Done():
				return nil
			}
		}
	})

	for _, w := range workers {
		g.Go(func() error {
			for {
				select {
				case task, ok := <-tasks:
					if !ok {
						return nil
					}
					recs, err := w.roundTrip(gen.Name, task.rec)
					task.out <- poolResult{recs: recs, err: err}
					if err != nil && errors.HasCode(err, errors.ErrCodeWorkerFailed) {
						return err
					}
				case <-gctx.Done():
					return nil
				}
			}
		})
	}

	return &poolIter{
		order: order,
		close: func() error {
			cancel()
			_ = g.Wait()
			for _, w := range workers {
				w.shutdown()
			}
			return upstream.Close()
		},
	}
}

// roundTrip sends one task and waits for its reply. The protocol is
// strictly request/response per worker, so replies match requests.
func (w *workerProc) roundTrip(name string, rec record.Record) ([]record.Record, error) {
	if err := w.enc.Encode(wireTask{Name: name, Rec: rec}); err != nil {
		return nil, errors.WorkerFailed(w.id, err)
	}
	var reply wireReply
	if err := w.dec.Decode(&reply); err != nil {
		return nil, errors.WorkerFailed(w.id, err)
	}
	return reply.Recs, reply.error()
}

// shutdown closes the worker's stdin (the worker exits on EOF) and waits.
// The command context sends SIGTERM, then SIGKILL after the grace period,
// if the worker lingers.
func (w *workerProc) shutdown() {
	_ = w.stdin.Close()
	_ = w.cmd.Wait()
	logger.WithComponent("executor").Debug("worker stopped", logger.Fields(logger.FieldWorker, w.id))
}

func spawnWorker(ctx context.Context) (*workerProc, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	cmd := exec.CommandContext(ctx, exe)
	cmd.Env = append(os.Environ(), workerEnv+"="+id)
	cmd.Stderr = os.Stderr
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = workerGracePeriod

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &workerProc{
		id:    id,
		cmd:   cmd,
		stdin: stdin,
		enc:   gob.NewEncoder(stdin),
		dec:   gob.NewDecoder(stdout),
	}, nil
}

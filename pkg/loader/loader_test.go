// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/nsload/nsload/internal/testutil"
	"github.com/nsload/nsload/pkg/unit"
)

func TestLoadOnce(t *testing.T) {
	t.Parallel()

	root := testutil.WriteTree(t, t.TempDir(), map[string]string{
		"Foo/Bar.cue": `greeting: "hi"`,
	})
	path := filepath.Join(root, "Foo", "Bar.cue")

	fs := testutil.NewCountingFS(nil)
	var executed []*unit.Unit
	l := New(fs, unit.CUE{}, WithExecutor(func(_ context.Context, u *unit.Unit) error {
		executed = append(executed, u)
		return nil
	}))

	ctx := context.Background()
	loaded, err := l.LoadOnce(ctx, "Foo.Bar", path)
	if err != nil || !loaded {
		t.Fatalf("first LoadOnce() = %v, %v; want true, nil", loaded, err)
	}
	loaded, err = l.LoadOnce(ctx, "Foo.Bar", path)
	if err != nil || loaded {
		t.Fatalf("second LoadOnce() = %v, %v; want false, nil", loaded, err)
	}

	if len(executed) != 1 {
		t.Fatalf("executor ran %d times, want 1", len(executed))
	}
	if executed[0].Name != "Foo.Bar" || executed[0].Path != path {
		t.Errorf("executed unit = %q from %q", executed[0].Name, executed[0].Path)
	}
	if fs.Reads(path) != 1 {
		t.Errorf("file read %d times, want 1", fs.Reads(path))
	}
	if !l.Loaded(path) {
		t.Error("Loaded() = false after successful load")
	}
	if got := l.Records(); len(got) != 1 || got[0] != path {
		t.Errorf("Records() = %q", got)
	}
	if u, ok := l.Unit(path); !ok || u.Name != "Foo.Bar" {
		t.Errorf("Unit() = %v, %v", u, ok)
	}
}

func TestLoadOnce_Missing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "Later.cue")
	l := New(testutil.NewCountingFS(nil), unit.CUE{})

	loaded, err := l.LoadOnce(context.Background(), "Later", path)
	if err != nil || loaded {
		t.Fatalf("LoadOnce(missing) = %v, %v; want false, nil", loaded, err)
	}
	if len(l.Records()) != 0 {
		t.Errorf("Records() = %q, want empty", l.Records())
	}

	// A file that appears later is still loadable.
	testutil.MustWriteFile(t, path, `x: 1`)
	loaded, err = l.LoadOnce(context.Background(), "Later", path)
	if err != nil || !loaded {
		t.Fatalf("LoadOnce(created) = %v, %v; want true, nil", loaded, err)
	}
}

func TestLoadOnce_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		exec    Executor
		stage   Stage
	}{
		{name: "decode", content: `x: {`, stage: StageDecode},
		{
			name:    "execute",
			content: `x: 1`,
			exec:    func(context.Context, *unit.Unit) error { return errors.New("already defined") },
			stage:   StageExecute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "Broken.cue")
			testutil.MustWriteFile(t, path, tt.content)

			fs := testutil.NewCountingFS(nil)
			var opts []Option
			if tt.exec != nil {
				opts = append(opts, WithExecutor(tt.exec))
			}
			l := New(fs, unit.CUE{}, opts...)

			_, err := l.LoadOnce(context.Background(), "Broken", path)
			if !errors.Is(err, ErrLoadFailed) {
				t.Fatalf("LoadOnce() error = %v, want ErrLoadFailed", err)
			}
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("LoadOnce() error type = %T, want *LoadError", err)
			}
			if loadErr.Stage != tt.stage || loadErr.Path != path {
				t.Errorf("LoadError = %+v", loadErr)
			}

			// The failure is memoized and the file is not read again.
			_, again := l.LoadOnce(context.Background(), "Broken", path)
			if again != err {
				t.Errorf("second LoadOnce() error = %v, want memoized %v", again, err)
			}
			if fs.Reads(path) != 1 {
				t.Errorf("file read %d times, want 1", fs.Reads(path))
			}
			if l.Loaded(path) {
				t.Error("Loaded() = true after failure")
			}
		})
	}
}

func TestLoadOnce_Concurrent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "Shared.toml")
	testutil.MustWriteFile(t, path, `x = 1`)

	var runs atomic.Int32
	l := New(testutil.NewCountingFS(nil), unit.TOML{}, WithExecutor(func(context.Context, *unit.Unit) error {
		runs.Add(1)
		return nil
	}))

	var (
		wg     sync.WaitGroup
		wins   atomic.Int32
		ctx    = context.Background()
		errsMu sync.Mutex
		errs   []error
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loaded, err := l.LoadOnce(ctx, "Shared", path)
			if err != nil {
				errsMu.Lock()
				errs = append(errs, err)
				errsMu.Unlock()
			}
			if loaded {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if len(errs) != 0 {
		t.Fatalf("LoadOnce() errors = %v", errs)
	}
	if runs.Load() != 1 || wins.Load() != 1 {
		t.Errorf("executor runs = %d, loaders reporting true = %d; want 1 and 1", runs.Load(), wins.Load())
	}
}

func TestLoadOnce_Spans(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "Good.cue")
	bad := filepath.Join(dir, "Bad.cue")
	testutil.MustWriteFile(t, good, `x: 1`)
	testutil.MustWriteFile(t, bad, `x: `)

	rec := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)).Tracer("test")
	l := New(testutil.NewCountingFS(nil), unit.CUE{}, WithTracer(tracer))

	_, _ = l.LoadOnce(context.Background(), "Good", good)
	_, _ = l.LoadOnce(context.Background(), "Bad", bad)

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("recorded %d spans, want 2", len(spans))
	}
	for _, s := range spans {
		if s.Name() != "nsload.load" {
			t.Errorf("span name = %q", s.Name())
		}
	}
	if spans[0].Status().Code == codes.Error {
		t.Error("successful load recorded as error")
	}
	if spans[1].Status().Code != codes.Error {
		t.Error("failed load not recorded as error")
	}
}

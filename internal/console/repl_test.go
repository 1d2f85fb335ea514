package console

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	calls []string
}

func (f *fakeExec) Connect(ctx context.Context) error {
	f.calls = append(f.calls, "connect")
	return nil
}
func (f *fakeExec) Tokens(ctx context.Context) error {
	f.calls = append(f.calls, "tokens")
	return nil
}
func (f *fakeExec) Balance(ctx context.Context) error {
	f.calls = append(f.calls, "balance")
	return nil
}
func (f *fakeExec) Mint(ctx context.Context) error {
	f.calls = append(f.calls, "mint")
	return nil
}
func (f *fakeExec) Deploy(ctx context.Context) error {
	f.calls = append(f.calls, "deploy")
	return nil
}

func TestRunREPL_DispatchAndAliases(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"connect",
		"t",
		"tokens",
		"b",
		"balance 0xsomething",
		"mint",
		"deploy",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	want := []string{"connect", "tokens", "tokens", "balance", "balance", "mint", "deploy"}
	if len(exec.calls) != len(want) {
		t.Fatalf("calls mismatch: got %v, want %v", exec.calls, want)
	}
	for i := range want {
		if exec.calls[i] != want[i] {
			t.Fatalf("call %d: got %q, want %q", i, exec.calls[i], want[i])
		}
	}
}

func TestRunREPL_EOFExits(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("")
	exec := &fakeExec{}

	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(input))

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

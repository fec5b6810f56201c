package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Backup hooks
	b := NoopBackupHooks{}
	b.OnListStart(ctx, "app.csproj")
	b.OnListComplete(ctx, "app.csproj", 512, time.Second, nil)
	b.OnArchiveStart(ctx, "Newtonsoft.Json", "13.0.1")
	b.OnArchiveComplete(ctx, "Newtonsoft.Json", "13.0.1", time.Second, nil)
	b.OnNormalizeComplete(ctx, 3, 1, time.Second)

	// Process hooks
	p := NoopProcessHooks{}
	p.OnStart(ctx, "dotnet", []string{"list"})
	p.OnExit(ctx, "dotnet", 0, time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Backup().(NoopBackupHooks); !ok {
		t.Error("Backup() should return NoopBackupHooks by default")
	}
	if _, ok := Process().(NoopProcessHooks); !ok {
		t.Error("Process() should return NoopProcessHooks by default")
	}

	customBackup := &testBackupHooks{}
	SetBackupHooks(customBackup)
	if Backup() != customBackup {
		t.Error("SetBackupHooks should set custom hooks")
	}

	customProcess := &testProcessHooks{}
	SetProcessHooks(customProcess)
	if Process() != customProcess {
		t.Error("SetProcessHooks should set custom hooks")
	}

	Reset()
	if _, ok := Backup().(NoopBackupHooks); !ok {
		t.Error("Reset() should restore NoopBackupHooks")
	}
	if _, ok := Process().(NoopProcessHooks); !ok {
		t.Error("Reset() should restore NoopProcessHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testBackupHooks{}
	SetBackupHooks(custom)

	// Setting nil should be ignored
	SetBackupHooks(nil)

	if Backup() != custom {
		t.Error("SetBackupHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testBackupHooks struct{ NoopBackupHooks }
type testProcessHooks struct{ NoopProcessHooks }

package core_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alguard/alguard/pkg/core"
)

// ExampleScanRepository scans a directory for objects missing a prefix.
func ExampleScanRepository() {
	dir, err := os.MkdirTemp("", "alguard-example")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)
	_ = os.WriteFile(filepath.Join(dir, "Buffer.Table.al"), []byte("table 50100 \"Customer Buffer\"\n{\n}\n"), 0o644)

	findings, err := core.ScanRepository(context.Background(), dir, nil, map[string]any{
		"objectPrefix": map[string]any{"requiredPrefix": "TES"},
	})
	if err != nil {
		panic(err)
	}
	for _, f := range findings {
		fmt.Println(f.Severity, f.Rule, f.File)
	}
	// Output:
	// major objectPrefix Buffer.Table.al
}

// ExampleApplyEdits shows that nothing is written without confirmation.
func ExampleApplyEdits() {
	res, err := core.ApplyEdits(".", []core.FileProposal{{File: "a.al"}}, false)
	if err != nil {
		panic(err)
	}
	fmt.Println(res.Confirmed, res.Reason)
	// Output:
	// false not confirmed
}

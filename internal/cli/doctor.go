package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/threethings/internal/snapshot"
	"github.com/julianstephens/threethings/internal/storage"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	loaded := false

	// Check 1: storage reachable
	if err := ctx.Journal.Load(); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK\n")
		loaded = true
		defer ctx.Journal.Close()
	}

	// Check 2: storage writable
	if loaded {
		if err := checkStorageWritable(ctx); err != nil {
			fmt.Printf("❌ Storage writable: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Storage writable: OK\n")
		}
	} else {
		fmt.Printf("⊘ Storage writable: SKIPPED (storage not reachable)\n")
	}

	// Check 3: data validation (warning only; damage was already contained on load)
	if loaded {
		if errs := ctx.Journal.ValidationErrors(); len(errs) > 0 {
			fmt.Printf("⚠ Data validation: %d problem record(s)\n", len(errs))
			for _, e := range errs {
				fmt.Printf("   %s record %d: %s\n", e.Kind, e.Position, e.Message)
			}
			fmt.Println("   Consider 'threethings export backup.json' before further changes.")
		} else {
			fmt.Printf("✓ Data validation: OK\n")
		}
	} else {
		fmt.Printf("⊘ Data validation: SKIPPED (storage not reachable)\n")
	}

	// Check 4: snapshots present (warning only)
	if snapshots, err := snapshot.NewManager(ctx.Journal.Gateway().Path()).List(); err != nil {
		fmt.Printf("⚠ Snapshots present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else if len(snapshots) == 0 {
		fmt.Printf("⚠ Snapshots present: WARNING\n")
		fmt.Println("   No snapshots found - consider 'threethings snapshot create'")
	} else {
		fmt.Printf("✓ Snapshots present: OK (%d)\n", len(snapshots))
	}

	// Check 5: concurrent instances (warning only)
	if n, err := countRunningInstances(); err != nil {
		fmt.Printf("⊘ Concurrent instances: SKIPPED (%v)\n", err)
	} else if n > 1 {
		fmt.Printf("⚠ Concurrent instances: %d copies of threethings are running\n", n)
		fmt.Println("   Concurrent writes can clobber each other; close the extras.")
	} else {
		fmt.Printf("✓ Concurrent instances: OK\n")
	}

	// Check 6: clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStorageWritable(ctx *Context) error {
	if !ctx.Journal.Gateway().IsAvailable() {
		return fmt.Errorf("probe write failed")
	}
	if gw, ok := ctx.Journal.Gateway().(*storage.SQLiteGateway); ok {
		db := gw.DB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func countRunningInstances() (int, error) {
	procs, err := ps.Processes()
	if err != nil {
		return 0, fmt.Errorf("failed to list processes: %w", err)
	}

	self := filepath.Base(os.Args[0])
	count := 0
	for _, p := range procs {
		if strings.EqualFold(p.Executable(), self) {
			count++
		}
	}
	return count, nil
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

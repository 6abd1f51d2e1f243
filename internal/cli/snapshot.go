package cli

import (
	"fmt"

	"github.com/julianstephens/threethings/internal/snapshot"
)

type SnapshotCmd struct {
	Create  SnapshotCreateCmd  `cmd:"" help:"Snapshot the store file now."`
	List    SnapshotListCmd    `cmd:"" help:"List available snapshots."`
	Restore SnapshotRestoreCmd `cmd:"" help:"Restore the store from a snapshot."`
}

type SnapshotCreateCmd struct{}

func (c *SnapshotCreateCmd) Run(ctx *Context) error {
	path, err := snapshot.NewManager(ctx.Journal.Gateway().Path()).Create()
	if err != nil {
		return err
	}
	fmt.Printf("✓ Snapshot saved: %s\n", path)
	return nil
}

type SnapshotListCmd struct{}

func (c *SnapshotListCmd) Run(ctx *Context) error {
	snapshots, err := snapshot.NewManager(ctx.Journal.Gateway().Path()).List()
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Println("No snapshots yet. Create one with 'threethings snapshot create'.")
		return nil
	}
	for _, s := range snapshots {
		fmt.Printf("%s  %s  (%d bytes)\n", s.Timestamp.Format("2006-01-02 15:04:05"), s.Path, s.Size)
	}
	return nil
}

type SnapshotRestoreCmd struct {
	File string `arg:"" help:"Snapshot file to restore." type:"existingfile"`
}

func (c *SnapshotRestoreCmd) Run(ctx *Context) error {
	if err := snapshot.NewManager(ctx.Journal.Gateway().Path()).Restore(c.File); err != nil {
		return err
	}
	fmt.Println("✓ Store restored. Run 'threethings doctor' to verify.")
	return nil
}

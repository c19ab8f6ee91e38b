package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/terraincognita07/registro/internal/db"
	"github.com/terraincognita07/registro/internal/services"
)

var errUserRequired = errors.New("user id is required")

func RunSampleLoad(ctx context.Context, runtime *Runtime, userID string, out io.Writer) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errUserRequired
	}
	count, err := runtime.Samples.Load(ctx, userID)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "loaded %d sample days for %s\n", count, userID)
	return err
}

func RunSampleClear(ctx context.Context, runtime *Runtime, userID string, out io.Writer) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errUserRequired
	}
	count, err := runtime.Samples.Clear(ctx, userID)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "deleted %d records for %s\n", count, userID)
	return err
}

// RunExport writes the CSV export for userID to out.
func RunExport(ctx context.Context, runtime *Runtime, userID string, out io.Writer) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errUserRequired
	}
	file, err := runtime.Exports.BuildCSV(ctx, userID, runtime.Days.Today(), services.ExportRange{})
	if err != nil {
		return err
	}
	_, err = out.Write(file.Body)
	return err
}

// RunIssueToken prints a pre-issued session token usable as INITIAL_AUTH_TOKEN.
func RunIssueToken(runtime *Runtime, userID string, ttl time.Duration, out io.Writer) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errUserRequired
	}
	token, err := runtime.Auth.IssuePreissued(userID, ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}

func RunMigrationStatus(runtime *Runtime, out io.Writer) error {
	if runtime.Database == nil {
		return errors.New("migrations only apply to the sqlite store")
	}
	applied, err := db.ListAppliedMigrations(runtime.Database)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		_, err = fmt.Fprintln(out, "no migrations applied")
		return err
	}
	for _, migration := range applied {
		if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", migration.Version, migration.Name, migration.AppliedAt); err != nil {
			return err
		}
	}
	return nil
}

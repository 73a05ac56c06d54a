package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/EmpoweredVote/civic-requests/internal/requests"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// CLI flags
var (
	csvPath     = flag.String("csv", "", "Path to a CSV in the export layout (required)")
	dsn         = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	dryRun      = flag.Bool("dry-run", false, "Parse + validate only; no DB writes")
	replace     = flag.Bool("replace", false, "Delete every existing request before importing")
	confirm     = flag.Bool("confirm", false, "Required together with --replace")
	advisoryKey = flag.Int64("advisory-lock", 0, "Optional Postgres advisory lock key. 0 = disabled")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *csvPath == "" {
		fatalf("--csv is required")
	}
	if *dsn == "" && !*dryRun {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		fatalf("open csv: %v", err)
	}
	rows, err := requests.ReadCSV(f)
	f.Close()
	if err != nil {
		fatalf("CSV error: %v", err)
	}
	fmt.Printf("Loaded %d requests from %s\n", len(rows), *csvPath)

	if *dryRun {
		printPlan(rows)
		fmt.Println("Dry run complete. No changes made.")
		return
	}
	if *replace && !*confirm {
		fatalf("Refusing to --replace without --confirm. Add --dry-run to preview.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		fatalf("begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if *advisoryKey != 0 {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, *advisoryKey); err != nil {
			fatalf("advisory lock: %v", err)
		}
	}

	owners, err := resolveOwners(ctx, tx, rows)
	if err != nil {
		fatalf("resolve owners: %v", err)
	}

	before, err := countRequests(ctx, tx)
	if err != nil {
		fatalf("pre-count: %v", err)
	}
	fmt.Printf("Before: requests=%d\n", before)

	if *replace {
		if _, err := tx.ExecContext(ctx, `DELETE FROM app_requests.requests`); err != nil {
			fatalf("wipe requests: %v", err)
		}
	}

	if err := insertAll(ctx, tx, rows, owners); err != nil {
		fatalf("insert data: %v", err)
	}

	after, err := countRequests(ctx, tx)
	if err != nil {
		fatalf("post-count: %v", err)
	}
	fmt.Printf("After:  requests=%d\n", after)

	expected := before + int64(len(rows))
	if *replace {
		expected = int64(len(rows))
	}
	if after != expected {
		fatalf("sanity check failed: requests=%d expected=%d", after, expected)
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}
	fmt.Println("Import complete")
}

func printPlan(rows []requests.ImportRow) {
	owners := map[string]struct{}{}
	byStatus := map[requests.Status]int{}
	for _, r := range rows {
		owners[r.Email] = struct{}{}
		byStatus[r.Status]++
	}
	fmt.Println("Plan preview:")
	fmt.Printf("  Requests to insert: %d\n", len(rows))
	fmt.Printf("  Distinct owners: %d\n", len(owners))
	fmt.Printf("  PENDING=%d APPROVED=%d REJECTED=%d\n",
		byStatus[requests.StatusPending], byStatus[requests.StatusApproved], byStatus[requests.StatusRejected])
	if *replace {
		fmt.Println("  Tables affected (destructive): app_requests.requests")
	}
}

// resolveOwners maps each distinct email to a user id. Every owner must
// already have an account.
func resolveOwners(ctx context.Context, tx *sql.Tx, rows []requests.ImportRow) (map[string]int64, error) {
	stmt, err := tx.PrepareContext(ctx, `SELECT id FROM app_auth.users WHERE email = $1`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	out := map[string]int64{}
	for _, r := range rows {
		if _, ok := out[r.Email]; ok {
			continue
		}
		var id int64
		err := stmt.QueryRowContext(ctx, r.Email).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("row %d: no account for %s", r.Line, r.Email)
		}
		if err != nil {
			return nil, fmt.Errorf("look up %s: %w", r.Email, err)
		}
		out[r.Email] = id
	}
	return out, nil
}

func countRequests(ctx context.Context, tx *sql.Tx) (int64, error) {
	var n int64
	err := tx.QueryRowContext(ctx, `SELECT count(*) FROM app_requests.requests`).Scan(&n)
	return n, err
}

func insertAll(ctx context.Context, tx *sql.Tx, rows []requests.ImportRow, owners map[string]int64) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO app_requests.requests
		(department, date, status, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Department, r.Date, string(r.Status), owners[r.Email]); err != nil {
			return fmt.Errorf("insert row %d: %w", r.Line, err)
		}
	}
	return nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

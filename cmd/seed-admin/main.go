package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/EmpoweredVote/civic-requests/internal/auth"
	"github.com/EmpoweredVote/civic-requests/internal/db"
	"github.com/EmpoweredVote/civic-requests/internal/seeds"
	"github.com/EmpoweredVote/civic-requests/internal/validation"
	"github.com/joho/godotenv"
)

// CLI flags
var (
	email     = flag.String("email", os.Getenv("ADMIN_EMAIL"), "Admin email (default: env ADMIN_EMAIL)")
	password  = flag.String("password", os.Getenv("ADMIN_PASSWORD"), "Admin password (default: env ADMIN_PASSWORD)")
	firstName = flag.String("first-name", "System", "Admin first name")
	lastName  = flag.String("last-name", "Admin", "Admin last name")
	reset     = flag.Bool("reset-password", false, "Overwrite the password of an existing account")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	in := seeds.AdminInput{Email: *email, Password: *password, FirstName: *firstName, LastName: *lastName}
	if err := validation.New().Struct(in); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			for _, v := range verrs {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", v.Field, v.Message)
			}
		}
		fatalf("invalid admin input: %v", err)
	}

	conn, err := db.Connect(os.Getenv("DATABASE_URL"), false)
	if err != nil {
		fatalf("connect: %v", err)
	}
	if err := auth.Init(conn); err != nil {
		fatalf("init auth schema: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := seeds.SeedAdmin(ctx, auth.NewUserRepository(conn), auth.NewBcryptHasher(auth.PasswordCost), in, *reset)
	if err != nil {
		fatalf("seed admin: %v", err)
	}
	if created {
		fmt.Printf("Created admin %s\n", in.Email)
	} else {
		fmt.Printf("Promoted existing account %s to ADMIN\n", in.Email)
	}
}

func fatalf(format string, args ...any) {
	slog.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/yukikurage/kanban-api/internal/config"
	"github.com/yukikurage/kanban-api/internal/database"
	"github.com/yukikurage/kanban-api/internal/logging"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
	"github.com/yukikurage/kanban-api/internal/services"
)

const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitNotFound = 3
)

const usage = `usage: admin <command> <username>

commands:
  activate      allow a pending account to sign in
  deactivate    put an account back into the pending state
  delete-user   delete an account, its boards and the tasks it created`

// accountAdmin is the part of the auth service the CLI drives.
type accountAdmin interface {
	SetActive(username string, active bool) (*models.User, error)
	DeleteUser(username string) error
}

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.IsProduction())

	if err := database.Connect(cfg, log); err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	authService := services.NewAuthService(repository.NewUserRepository(database.GetDB()))
	os.Exit(run(os.Args[1:], authService, os.Stdout, os.Stderr))
}

func run(args []string, admin accountAdmin, stdout, stderr io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(stderr, usage)
		return exitUsage
	}
	command, username := args[0], args[1]

	var err error
	switch command {
	case "activate", "deactivate":
		var user *models.User
		user, err = admin.SetActive(username, command == "activate")
		if err == nil {
			fmt.Fprintf(stdout, "%s: is_active=%t\n", user.Username, user.IsActive)
		}
	case "delete-user":
		err = admin.DeleteUser(username)
		if err == nil {
			fmt.Fprintf(stdout, "%s: deleted\n", username)
		}
	default:
		fmt.Fprintln(stderr, usage)
		return exitUsage
	}

	if err != nil {
		fmt.Fprintf(stderr, "%s %s: %v\n", command, username, err)
		if errors.Is(err, services.ErrNotFound) {
			return exitNotFound
		}
		return exitFailure
	}
	return exitOK
}

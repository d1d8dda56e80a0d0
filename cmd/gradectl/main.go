// gradectl отправляет одно изменение записи через тот же канал, что и страница обзора,
// и выдаёт сессионные токены для отладки.
//
//	gradectl -cmid 7 -appointment 12 -grade 3
//	gradectl -cmid 7 -appointment 12 -seen=true
//	gradectl -issue-token -user 5 -role teacher
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Freeeeeet/scheduler_grading/internal/app"
	"github.com/Freeeeeet/scheduler_grading/internal/auth"
	"github.com/Freeeeeet/scheduler_grading/internal/client"
	"github.com/Freeeeeet/scheduler_grading/internal/config"
	"github.com/Freeeeeet/scheduler_grading/internal/formatting"
	"github.com/Freeeeeet/scheduler_grading/internal/model"
)

// consoleIndicator выводит состояние отправки в stderr
type consoleIndicator struct{}

func (consoleIndicator) ShowSpinner() { fmt.Fprintln(os.Stderr, "sending...") }
func (consoleIndicator) HideSpinner() {}
func (consoleIndicator) ShowError(f *client.Failure) {
	fmt.Fprintln(os.Stderr, f.Error())
}

func main() {
	cfg, err := config.LoadCLI()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var (
		baseURL     = flag.String("url", cfg.BaseURL, "service base URL")
		token       = flag.String("token", cfg.Token, "session token")
		cmid        = flag.Int64("cmid", 0, "scheduler course module id")
		appointment = flag.Int64("appointment", 0, "appointment id")
		grade       = flag.String("grade", "", "grade value, \"none\" clears the grade")
		seen        = flag.String("seen", "", "attendance: true or false")
		timeout     = flag.Duration("timeout", client.DefaultTimeout, "request timeout")

		issue  = flag.Bool("issue-token", false, "print a session token and exit")
		userID = flag.Int64("user", 0, "user id for -issue-token")
		role   = flag.String("role", string(model.RoleTeacher), "role for -issue-token")
		ttl    = flag.Duration("ttl", 12*time.Hour, "token lifetime for -issue-token")
	)
	flag.Parse()

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	if *issue {
		if err := issueToken(cfg.JWTSecret, *userID, model.Role(*role), *ttl); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		return
	}

	req, err := buildRequest(*cmid, *appointment, *grade, *seen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	c := client.New(*baseURL,
		client.WithToken(*token),
		client.WithTimeout(*timeout),
		client.WithLogger(logger))

	if _, err := c.Send(context.Background(), req, consoleIndicator{}); err != nil {
		os.Exit(1)
	}
	fmt.Println("saved")
}

func issueToken(secret string, userID int64, role model.Role, ttl time.Duration) error {
	if secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if userID <= 0 {
		return fmt.Errorf("-user must be positive")
	}
	token, err := auth.NewManager(secret, ttl).Issue(userID, role)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	fmt.Println(token)
	return nil
}

func buildRequest(cmid, appointment int64, grade, seen string) (client.Request, error) {
	if cmid <= 0 || appointment <= 0 {
		return client.Request{}, fmt.Errorf("-cmid and -appointment are required")
	}

	switch {
	case grade != "" && seen != "":
		return client.Request{}, fmt.Errorf("use either -grade or -seen")
	case grade == "none":
		return client.GradeRequest(cmid, appointment, formatting.NoGrade), nil
	case grade != "":
		value, err := strconv.Atoi(grade)
		if err != nil {
			return client.Request{}, fmt.Errorf("invalid -grade %q", grade)
		}
		return client.GradeRequest(cmid, appointment, value), nil
	case seen != "":
		attended, err := strconv.ParseBool(seen)
		if err != nil {
			return client.Request{}, fmt.Errorf("invalid -seen %q", seen)
		}
		return client.SeenRequest(cmid, appointment, attended), nil
	}
	return client.Request{}, fmt.Errorf("one of -grade or -seen is required")
}

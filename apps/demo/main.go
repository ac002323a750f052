package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/darasa/darasa-client/core"
	"github.com/darasa/darasa-client/core/assistant"
	"github.com/darasa/darasa-client/core/authoring"
	"github.com/darasa/darasa-client/core/catalog"
	"github.com/darasa/darasa-client/core/enrollment"
	"github.com/darasa/darasa-client/core/session"
	"github.com/darasa/darasa-client/services/gateway"
	logsvc "github.com/darasa/darasa-client/services/logger"
)

// demo wires the full client and walks the public catalog, the way a
// dashboard shell would at startup.
func main() {
	conf := core.LoadConfig()
	std := log.New(os.Stdout, conf.AppName+" ", log.LstdFlags|log.Lshortfile)

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	gw := gateway.New(conf, logger)

	var roles session.ActiveRoleStore
	if conf.ActiveRolePath != "" {
		roles = session.NewFileRoleStore(conf.ActiveRolePath)
	} else {
		roles = session.NewMemoryRoleStore()
	}

	sessionSvc := session.NewService(gw, roles, logger)
	gw.InjectSession(sessionSvc)

	catalogSvc := catalog.NewService(gw, logger)
	enrollmentSvc := enrollment.NewService(gw, logger)
	authoringSvc := authoring.NewService(gw, logger)
	assistantSvc := assistant.NewService(gw, logger)
	gw.OnAuthExpired(func() {
		enrollmentSvc.Clear()
		authoringSvc.Discard()
		assistantSvc.Reset()
		logger.Info("session expired; sign in again")
	})

	ctx := context.Background()
	sessionSvc.Initialize(ctx)
	signedIn := sessionSvc.State().User != nil
	if signedIn {
		logger.Info("signed in as " + sessionSvc.State().User.FullName())
	}

	if err := catalogSvc.ListCourses(ctx, catalog.Filters{Page: 1, Limit: 10}); err != nil {
		std.Fatal(catalogSvc.State().Error)
	}
	for _, course := range catalogSvc.State().Courses {
		fmt.Printf("%s (%s, %s) %.2f\n", course.Title, course.Category, course.Level, course.Price)
	}

	if signedIn {
		if err := enrollmentSvc.MyEnrollments(ctx); err != nil {
			std.Fatal(enrollmentSvc.State().Error)
		}
		fmt.Printf("enrolled in %d course(s)\n", len(enrollmentSvc.State().Enrollments))
	}
}

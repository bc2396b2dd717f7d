package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/shiftsync-hr/attendance-recon-go/internal/config"
	"github.com/shiftsync-hr/attendance-recon-go/internal/domain/schedule"
	appHTTP "github.com/shiftsync-hr/attendance-recon-go/internal/handler/http"
	"github.com/shiftsync-hr/attendance-recon-go/internal/pkg/database"
	"github.com/shiftsync-hr/attendance-recon-go/internal/repository/postgresql"
	attendanceService "github.com/shiftsync-hr/attendance-recon-go/internal/service/attendance"
	"github.com/shiftsync-hr/attendance-recon-go/internal/service/importer"
	reportService "github.com/shiftsync-hr/attendance-recon-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	reconCfg := attendanceService.DefaultReconcilerConfig()
	reconCfg.GracePeriodMinutes = cfg.Recon.GracePeriodMinutes
	reconCfg.WeekendDays = cfg.Recon.WeekendDays
	if in, ok := importer.ParseClockTime(cfg.Recon.DefaultClockIn); ok {
		if out, ok := importer.ParseClockTime(cfg.Recon.DefaultClockOut); ok {
			reconCfg.DefaultSchedule = schedule.WorkSchedule{ClockIn: in, ClockOut: out}
		}
	}

	txRunner := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return postgresql.WithTransaction(ctx, db, fn)
	}

	reconSvc := attendanceService.NewReconciliationService(attendanceRepo, employeeRepo, leaveRepo, txRunner, reconCfg, logger)
	reportSvc := reportService.NewReportService(reportRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(reconSvc, cfg.App.MaxUploadMB)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(attendanceHandler, reportHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/arkiva/doc-registry/internal/models"
	"github.com/arkiva/doc-registry/internal/remote"
	"github.com/arkiva/doc-registry/internal/service"
	"github.com/arkiva/doc-registry/pkg/cache"
	"github.com/arkiva/doc-registry/pkg/config"
	"github.com/arkiva/doc-registry/pkg/logger"
)

func main() {
	var (
		command      string
		departmentID string
		typeID       string
		title        string
		docID        string
		status       string
		search       string
		sortField    string
		action       string
		rawIDs       string
		format       string
		filePath     string
		filedBy      string
		filedDate    string
	)

	flag.StringVar(&command, "cmd", "list", "command: list|counts|create|update|delete|bulk|download|export|departments|types|admin")
	flag.StringVar(&departmentID, "department", "", "department id")
	flag.StringVar(&typeID, "type", "", "document type id")
	flag.StringVar(&title, "title", "", "document title")
	flag.StringVar(&docID, "id", "", "document id")
	flag.StringVar(&status, "status", "", "document status filter or update value")
	flag.StringVar(&search, "search", "", "free-text search")
	flag.StringVar(&sortField, "sort", "", "sort field (ref_no|title|created_by|created_date|status)")
	flag.StringVar(&action, "action", "", "bulk action: Delete or a target status")
	flag.StringVar(&rawIDs, "ids", "", "comma separated document ids for bulk actions")
	flag.StringVar(&format, "format", "csv", "export format: csv|pdf")
	flag.StringVar(&filePath, "file", "", "file to attach on update")
	flag.StringVar(&filedBy, "filed-by", "", "filer identity on update")
	flag.StringVar(&filedDate, "filed-date", "", "filing date on update")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, reference cache disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo = cache.NewRepository(redisClient, "docreg")
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cacheRepo != nil)

	var users *service.UserService
	client := remote.New(cfg.Registry.BaseURL, remote.Options{
		Timeout:  cfg.Registry.Timeout,
		Identity: func() string { return users.Username() },
		Logger:   logr,
		Metrics:  metrics,
	})
	users = service.NewUserService(client, logr)
	users.SetUsername(cfg.Session.Username)

	validate := validator.New()
	documents := service.NewDocumentService(client, validate, logr, service.DocumentOptions{
		Identity:    users.Username,
		DownloadDir: cfg.Registry.DownloadDir,
		PageSize:    cfg.Registry.PageSize,
		RecencyTTL:  cfg.Registry.RecencyTTL,
	})
	defer documents.Close()

	departments := service.NewDepartmentService(client, cacheSvc, logr)
	exports := service.NewExportService(client, cfg.Export.Dir, logr)

	ctx := context.Background()

	var ids []string
	if rawIDs != "" {
		for _, id := range strings.Split(rawIDs, ",") {
			if trimmed := strings.TrimSpace(id); trimmed != "" {
				ids = append(ids, trimmed)
			}
		}
	}

	switch command {
	case "list":
		err = runList(ctx, documents, models.FilterUpdate{
			Search:         &search,
			Status:         &status,
			DepartmentID:   &departmentID,
			DocumentTypeID: &typeID,
		}, sortField)
	case "counts":
		err = runCounts(ctx, documents, departmentID)
	case "create":
		err = documents.CreateDocument(ctx, models.NewDocument{
			DocumentTypeID: typeID,
			Title:          title,
			DepartmentID:   departmentID,
		})
	case "update":
		err = runUpdate(ctx, documents, docID, title, typeID, departmentID, status, filePath, filedBy, filedDate)
	case "delete":
		err = documents.DeleteDocument(ctx, docID)
	case "bulk":
		err = documents.ApplyBulkAction(ctx, action, ids)
	case "download":
		if path := documents.DownloadAttachment(ctx, docID); path != "" {
			fmt.Println(path)
		} else {
			fmt.Println("download failed, see logs")
		}
	case "export":
		var path string
		path, err = exports.Export(ctx, departmentID, typeID, service.ExportFormat(format))
		if err == nil {
			fmt.Println(path)
		}
	case "departments":
		err = runDepartments(ctx, departments)
	case "types":
		err = runTypes(ctx, departments, departmentID)
	case "admin":
		fmt.Println(users.CheckIsAdmin(ctx))
	default:
		err = fmt.Errorf("unknown command %q", command)
	}

	if err != nil {
		logr.Sugar().Errorw("command failed", "cmd", command, "error", err)
		os.Exit(1)
	}
}

func runList(ctx context.Context, documents *service.DocumentService, filter models.FilterUpdate, sortField string) error {
	if err := documents.Filter(ctx, filter); err != nil {
		return err
	}
	if sortField != "" {
		if err := documents.SetSort(ctx, sortField); err != nil {
			return err
		}
	}
	page := documents.Page()
	for _, doc := range page.Documents {
		fmt.Printf("%s\t%s\t%s\t%s\t%s\n", doc.ID, doc.RefNo, doc.Status, doc.CreatedBy, doc.Title)
	}
	fmt.Println(documents.PaginationText())
	return nil
}

func runCounts(ctx context.Context, documents *service.DocumentService, departmentID string) error {
	if err := documents.FetchStatusCounts(ctx, departmentID); err != nil {
		return err
	}
	counts := documents.StatusCounts()
	fmt.Printf("not filed: %d\nfiled: %d\nsuspended: %d\n", counts.NotFiled(), counts.Filed(), counts.Suspended())
	return nil
}

func runUpdate(ctx context.Context, documents *service.DocumentService, id, title, typeID, departmentID, status, filePath, filedBy, filedDate string) error {
	update := models.DocumentUpdate{ID: id}
	if title != "" {
		update.Title = &title
	}
	if typeID != "" {
		update.DocumentTypeID = &typeID
	}
	if departmentID != "" {
		update.DepartmentID = &departmentID
	}
	if status != "" {
		s := models.DocumentStatus(status)
		update.Status = &s
	}
	if filedBy != "" {
		update.FiledBy = &filedBy
	}
	if filedDate != "" {
		update.FiledDate = &filedDate
	}
	if filePath != "" {
		content, err := os.ReadFile(filePath)
		if err != nil {
			return err
		}
		update.File = &models.FileUpload{Name: filePathBase(filePath), Content: content}
	}
	return documents.UpdateDocument(ctx, update)
}

func filePathBase(path string) string {
	if idx := strings.LastIndexAny(path, `/\`); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

func runDepartments(ctx context.Context, departments *service.DepartmentService) error {
	all, err := departments.Departments(ctx)
	if err != nil {
		return err
	}
	for _, dept := range all {
		fmt.Printf("%s\t%s\t(%d types)\n", dept.ID, dept.Name, len(dept.DocumentTypes))
	}
	return nil
}

func runTypes(ctx context.Context, departments *service.DepartmentService, departmentID string) error {
	types, err := departments.DocumentTypes(ctx, departmentID)
	if err != nil {
		return err
	}
	for _, t := range types {
		fmt.Printf("%s\t%s\t%s\n", t.ID, t.Name, t.Prefix)
	}
	return nil
}

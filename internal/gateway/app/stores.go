package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"snippetlens/internal/gateway/config"
	"snippetlens/internal/gateway/repository/history"
	"snippetlens/internal/gateway/repository/report"
)

type gatewayStores struct {
	history history.Store
	reports report.Store
	closers []io.Closer
}

func initStores(ctx context.Context, cfg *config.Config) (*gatewayStores, error) {
	stores := &gatewayStores{}

	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		pg, err := history.OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		log.Printf("history store: postgres")
		stores.history = pg
		stores.closers = append(stores.closers, pg)
	} else {
		log.Printf("history store: in-memory")
		stores.history = history.NewMemoryStore()
	}

	reports, err := chooseReportStore(cfg)
	if err != nil {
		stores.close()
		return nil, err
	}
	stores.reports = reports
	return stores, nil
}

func chooseReportStore(cfg *config.Config) (report.Store, error) {
	if !cfg.Artifact.CanUseS3() {
		if strings.TrimSpace(cfg.Artifact.Endpoint) != "" {
			log.Printf("report store: using in-memory fallback (s3 config incomplete)")
		}
		return report.NewMemoryStore(), nil
	}
	s3Cfg := report.S3Config{
		Endpoint:  cfg.Artifact.Endpoint,
		Region:    cfg.Artifact.Region,
		AccessKey: cfg.Artifact.AccessKey,
		SecretKey: cfg.Artifact.SecretKey,
		Bucket:    cfg.Artifact.Bucket,
		UseSSL:    cfg.Artifact.UseSSL,
	}
	s3Store, err := report.NewS3Store(s3Cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report s3 store: %w", err)
	}
	log.Printf("report store: s3 bucket=%s endpoint=%s", s3Cfg.Bucket, s3Cfg.Endpoint)
	return s3Store, nil
}

func (s *gatewayStores) close() {
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			log.Printf("store close: %v", err)
		}
	}
}

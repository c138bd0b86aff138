// Package services orchestrates the load-and-verify pipeline: read the CSV,
// replace the destination table, then compare row counts.
package services

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/vvka-141/csvup/internal/checksum"
	"github.com/vvka-141/csvup/internal/dataset"
	"github.com/vvka-141/csvup/internal/db"
	"github.com/vvka-141/csvup/internal/uploader"
	"github.com/vvka-141/csvup/internal/verifier"
	"github.com/vvka-141/csvup/pkg/csvup"
)

// LoadService implements the end-to-end pipeline. It is NOT safe for
// concurrent Run() calls on the same instance; create separate instances
// for concurrent loads.
type LoadService struct {
	connectorFactory func(*csvup.ConnectionConfig) (csvup.Connector, error)
	approver         csvup.Approver
	logger           csvup.Logger
	out              io.Writer
}

// NewLoadService creates a LoadService with all dependencies injected.
//
// Nil dependencies are programmer errors and panic at construction time
// rather than surfacing as nil dereferences mid-pipeline. Runtime
// conditions (bad config, connection failures, malformed input) return
// errors from Run instead.
func NewLoadService(
	connectorFactory func(*csvup.ConnectionConfig) (csvup.Connector, error),
	approver csvup.Approver,
	logger csvup.Logger,
	out io.Writer,
) *LoadService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if out == nil {
		panic("out cannot be nil")
	}

	return &LoadService{
		connectorFactory: connectorFactory,
		approver:         approver,
		logger:           logger,
		out:              out,
	}
}

// Run executes one load: parse and validate config, read the CSV, connect,
// ask for approval when the destination table already exists, replace the
// table, and verify the row counts. The verification report is written to
// the service's output writer regardless of match or mismatch; a mismatch
// only becomes an error when config.Strict is set.
func (s *LoadService) Run(ctx context.Context, config csvup.LoadConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := uploader.ValidateTableName(config.TableName); err != nil {
		return err
	}

	runID := uuid.New()
	s.logger.Verbose("Run %s: loading %s into table %q", runID, config.CSVPath, config.TableName)

	if config.Verbose {
		if digest, err := checksum.File(config.CSVPath); err == nil {
			s.logger.Verbose("Input checksum (sha256): %s", digest)
		}
	}

	ds, err := dataset.Load(config.CSVPath, config.Delimiter)
	if err != nil {
		return err
	}
	s.logger.Verbose("Parsed %d rows, %d columns from %s", ds.RowCount(), ds.ColumnCount(), config.CSVPath)
	for _, col := range ds.Columns {
		s.logger.Verbose("Column %q inferred as %s", col.Name, col.Type.SQLType())
	}

	connConfig, err := s.buildConnectionConfig(config)
	if err != nil {
		return err
	}

	connector, err := s.connectorFactory(connConfig)
	if err != nil {
		return err
	}
	if closer, ok := connector.(io.Closer); ok {
		defer closer.Close()
	}

	s.logger.Verbose("Connecting to %s:%d/%s (%s auth)",
		connConfig.Host, connConfig.Port, connConfig.Database, connConfig.AuthMethod)
	pool, err := connector.Connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	exists, err := tableExists(ctx, pool, config.TableName)
	if err != nil {
		return err
	}

	if exists && !config.Force {
		approved, err := s.approver.RequestApproval(ctx, config.TableName)
		if err != nil {
			return fmt.Errorf("approval failed: %w", err)
		}
		if !approved {
			return fmt.Errorf("replacement of table %q denied: %w", config.TableName, csvup.ErrApprovalDenied)
		}
	}

	up := uploader.New(s.logger)
	if err := up.Replace(ctx, pool, config.TableName, ds); err != nil {
		return err
	}

	ver := verifier.New(s.logger, s.out)
	report, err := ver.Verify(ctx, pool, config.TableName, int64(ds.RowCount()))
	if err != nil {
		return err
	}

	if config.Strict && !report.Matched() {
		return fmt.Errorf("local=%d remote=%d: %w", report.Local, report.Remote, csvup.ErrCountMismatch)
	}
	return nil
}

// buildConnectionConfig parses the resolved connection string and overlays
// the cloud authentication parameters carried on the LoadConfig.
func (s *LoadService) buildConnectionConfig(config csvup.LoadConfig) (*csvup.ConnectionConfig, error) {
	connConfig, err := db.ParseConnectionString(config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w: %v", csvup.ErrInvalidConfig, err)
	}

	connConfig.AuthMethod = config.AuthMethod
	connConfig.AzureTenantID = config.AzureTenantID
	connConfig.AzureClientID = config.AzureClientID
	connConfig.AzureClientSecret = config.AzureClientSecret
	connConfig.AWSRegion = config.AWSRegion
	connConfig.GoogleInstance = config.GoogleInstance

	if connConfig.AppName == "" {
		connConfig.AppName = "csvup"
	}
	return connConfig, nil
}

// tableExists reports whether tableName resolves to a relation on the
// current search path.
func tableExists(ctx context.Context, q verifier.RowQuerier, tableName string) (bool, error) {
	var oid *uint32
	if err := q.QueryRow(ctx, "SELECT to_regclass($1)::oid", tableName).Scan(&oid); err != nil {
		return false, fmt.Errorf("%w: check table %q: %v", csvup.ErrQuery, tableName, err)
	}
	return oid != nil, nil
}

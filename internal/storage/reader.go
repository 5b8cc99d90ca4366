// Package storage reads the three raw ANS tables from the SQLite
// database.
//
// The reader is the fail-open boundary of the pipeline: a failed or
// malformed query is logged, counted, and surfaces to the caller as an
// empty result set, never an error. "No data for this view" is the
// degraded behavior, not an exception.
package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	_ "modernc.org/sqlite"

	"anspulse/pkg/contracts/domain"
)

var queryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "anspulse_storage_query_failures_total",
	Help: "Storage queries that failed and degraded to an empty result.",
}, []string{"query"})

const (
	queryOperatorDimension = `
		SELECT registro_operadora, razao_social, cnpj, uf, cidade, modalidade,
		       representante, cargo_representante, Data_Registro_ANS
		FROM operadoras`

	queryBeneficiaryFacts = `
		SELECT CD_OPERADO, ID_TRIMESTRE, NR_BENEF_T
		FROM beneficiarios
		WHERE ID_TRIMESTRE >= ?`

	queryFinancialFacts = `
		SELECT REG_ANS, ID_TRIMESTRE, VL_SALDO_FINAL
		FROM financeiro
		WHERE ID_TRIMESTRE >= ?`
)

// Reader provides the three logical extracts over a SQLite database.
// database/sql pools connections; every query acquires one scoped to
// the call and releases it deterministically.
type Reader struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens the SQLite database at path.
func Open(path string, logger *slog.Logger) (*Reader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		db:     db,
		logger: logger.With(slog.String("component", "storage")),
	}, nil
}

// Close releases the underlying connection pool.
func (r *Reader) Close() error {
	return r.db.Close()
}

// Ping verifies the database is reachable.
func (r *Reader) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// OperatorDimension returns the operator registry dimension, one row
// per operator.
func (r *Reader) OperatorDimension(ctx context.Context) []domain.OperatorRecord {
	rows, err := r.db.QueryContext(ctx, queryOperatorDimension)
	if err != nil {
		r.failOpen(ctx, "operator_dimension", err)
		return nil
	}
	defer rows.Close()

	var out []domain.OperatorRecord
	for rows.Next() {
		var (
			rec                                         domain.OperatorRecord
			code                                        any
			name, cnpj, uf, city, segment, rep, role, reg sql.NullString
		)
		if err := rows.Scan(&code, &name, &cnpj, &uf, &city, &segment, &rep, &role, &reg); err != nil {
			r.failOpen(ctx, "operator_dimension", err)
			return nil
		}
		rec.RegistryCode = rawString(code)
		rec.LegalName = name.String
		rec.CNPJ = cnpj.String
		rec.UF = uf.String
		rec.City = city.String
		rec.Segment = segment.String
		rec.Representative = rep.String
		rec.RepresentativeRole = role.String
		rec.RegistrationDate = reg.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		r.failOpen(ctx, "operator_dimension", err)
		return nil
	}
	return out
}

// BeneficiaryFacts returns the beneficiary counts per operator and
// period, pre-filtered to periods at or after cutoff.
func (r *Reader) BeneficiaryFacts(ctx context.Context, cutoff string) []domain.BeneficiaryFact {
	rows, err := r.db.QueryContext(ctx, queryBeneficiaryFacts, cutoff)
	if err != nil {
		r.failOpen(ctx, "beneficiary_facts", err)
		return nil
	}
	defer rows.Close()

	var out []domain.BeneficiaryFact
	for rows.Next() {
		var (
			id     any
			period sql.NullString
			lives  sql.NullInt64
		)
		if err := rows.Scan(&id, &period, &lives); err != nil {
			r.failOpen(ctx, "beneficiary_facts", err)
			return nil
		}
		out = append(out, domain.BeneficiaryFact{
			OperatorID: rawString(id),
			Period:     period.String,
			Lives:      lives.Int64,
		})
	}
	if err := rows.Err(); err != nil {
		r.failOpen(ctx, "beneficiary_facts", err)
		return nil
	}
	return out
}

// FinancialFacts returns the closing financial balances per operator
// and period, pre-filtered to periods at or after cutoff.
func (r *Reader) FinancialFacts(ctx context.Context, cutoff string) []domain.FinancialFact {
	rows, err := r.db.QueryContext(ctx, queryFinancialFacts, cutoff)
	if err != nil {
		r.failOpen(ctx, "financial_facts", err)
		return nil
	}
	defer rows.Close()

	var out []domain.FinancialFact
	for rows.Next() {
		var (
			id      any
			period  sql.NullString
			revenue sql.NullFloat64
		)
		if err := rows.Scan(&id, &period, &revenue); err != nil {
			r.failOpen(ctx, "financial_facts", err)
			return nil
		}
		out = append(out, domain.FinancialFact{
			OperatorID: rawString(id),
			Period:     period.String,
			Revenue:    revenue.Float64,
		})
	}
	if err := rows.Err(); err != nil {
		r.failOpen(ctx, "financial_facts", err)
		return nil
	}
	return out
}

func (r *Reader) failOpen(ctx context.Context, query string, err error) {
	queryFailures.WithLabelValues(query).Inc()
	r.logger.ErrorContext(ctx, "storage query failed, returning empty result",
		slog.String("query", query),
		slog.String("error", err.Error()),
	)
}

// rawString renders a scanned identifier column without assuming its
// SQLite storage class; registry codes appear as TEXT, INTEGER and REAL
// across the ingested vintages.
func rawString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

package approval

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

type stubPolicyRepo struct {
	policies []*entity.ApprovalPolicy
	failWith error
}

func (s *stubPolicyRepo) Create(*entity.ApprovalPolicy) error            { return nil }
func (s *stubPolicyRepo) GetByID(string) (*entity.ApprovalPolicy, error) { return nil, nil }
func (s *stubPolicyRepo) Update(*entity.ApprovalPolicy) error            { return nil }
func (s *stubPolicyRepo) List(int, int) ([]*entity.ApprovalPolicy, error) {
	return s.policies, nil
}
func (s *stubPolicyRepo) Delete(string) error { return nil }

// ListActive emula el orden del repo real: específicas de la bodega primero.
func (s *stubPolicyRepo) ListActive(kind entity.DocumentKind, warehouseID string) ([]*entity.ApprovalPolicy, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var specific, global []*entity.ApprovalPolicy
	for _, p := range s.policies {
		if !p.IsActive || p.DocumentKind != kind {
			continue
		}
		switch p.WarehouseID {
		case warehouseID:
			specific = append(specific, p)
		case "":
			global = append(global, p)
		}
	}
	return append(specific, global...), nil
}

func threshold(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestEvaluator_SinPoliticasNoRequiere(t *testing.T) {
	e := NewEvaluator(&stubPolicyRepo{})
	required, err := e.RequiresApproval(context.Background(), entity.KindDelivery, "wh-1", decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.False(t, required)
}

func TestEvaluator_UmbralNuloSiempreRequiere(t *testing.T) {
	e := NewEvaluator(&stubPolicyRepo{policies: []*entity.ApprovalPolicy{
		{ID: "p1", DocumentKind: entity.KindAdjustment, IsActive: true},
	}})
	required, err := e.RequiresApproval(context.Background(), entity.KindAdjustment, "wh-1", decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.True(t, required, "threshold nulo debe requerir aprobación para cualquier total")
}

func TestEvaluator_UmbralInclusive(t *testing.T) {
	e := NewEvaluator(&stubPolicyRepo{policies: []*entity.ApprovalPolicy{
		{ID: "p1", DocumentKind: entity.KindDelivery, ThresholdTotalQuantity: threshold(100), IsActive: true},
	}})

	required, err := e.RequiresApproval(context.Background(), entity.KindDelivery, "wh-1", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, required, "total == threshold debe requerir (comparación >=)")

	required, err = e.RequiresApproval(context.Background(), entity.KindDelivery, "wh-1", decimal.NewFromInt(99))
	require.NoError(t, err)
	assert.False(t, required)
}

func TestEvaluator_EspecificaGanaSobreGlobal(t *testing.T) {
	// Global exige siempre; la específica de wh-1 tiene umbral alto.
	e := NewEvaluator(&stubPolicyRepo{policies: []*entity.ApprovalPolicy{
		{ID: "global", DocumentKind: entity.KindDelivery, IsActive: true},
		{ID: "wh1", DocumentKind: entity.KindDelivery, WarehouseID: "wh-1", ThresholdTotalQuantity: threshold(500), IsActive: true},
	}})

	required, err := e.RequiresApproval(context.Background(), entity.KindDelivery, "wh-1", decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, required, "la global aplica cuando la específica no hace match")

	// En otra bodega solo aplica la global.
	required, err = e.RequiresApproval(context.Background(), entity.KindDelivery, "wh-2", decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, required)
}

func TestEvaluator_PrimerMatchGana(t *testing.T) {
	// La específica (umbral 500) se evalúa antes que la global (umbral 50):
	// un total de 600 hace match primero con la específica.
	e := NewEvaluator(&stubPolicyRepo{policies: []*entity.ApprovalPolicy{
		{ID: "wh1", DocumentKind: entity.KindDelivery, WarehouseID: "wh-1", ThresholdTotalQuantity: threshold(500), IsActive: true},
		{ID: "global", DocumentKind: entity.KindDelivery, ThresholdTotalQuantity: threshold(50), IsActive: true},
	}})
	required, err := e.RequiresApproval(context.Background(), entity.KindDelivery, "wh-1", decimal.NewFromInt(600))
	require.NoError(t, err)
	assert.True(t, required)
}

func TestEvaluator_PoliticaInactivaSeIgnora(t *testing.T) {
	e := NewEvaluator(&stubPolicyRepo{policies: []*entity.ApprovalPolicy{
		{ID: "p1", DocumentKind: entity.KindDelivery, IsActive: false},
	}})
	required, err := e.RequiresApproval(context.Background(), entity.KindDelivery, "wh-1", decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.False(t, required)
}

func TestEvaluator_FalloDeRepoEsErrorDuro(t *testing.T) {
	e := NewEvaluator(&stubPolicyRepo{failWith: errors.New("conexión perdida")})
	_, err := e.RequiresApproval(context.Background(), entity.KindDelivery, "wh-1", decimal.NewFromInt(10))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPolicyEvaluation)
}

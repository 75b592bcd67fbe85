package documents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/rbac"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

func cycleCountInput(expected int64) CreateDocumentInput {
	return CreateDocumentInput{
		Kind:        entity.KindCycleCount,
		WarehouseID: "wh-main",
		CycleCount:  &entity.CycleCountData{Method: entity.CountMethodPartial},
		Items:       []ItemInput{{ProductID: "prod-1", ExpectedQuantity: dec(expected)}},
	}
}

func TestConteoCiclico_GeneraAjustePorVarianza(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.setBalance("prod-1", "wh-main", 40, 0)
	ctx := context.Background()

	task := f.createReady(t, manager(), cycleCountInput(40))
	task, err := f.uc.UpdateCounts(ctx, manager(), task.ID, []CountInput{
		{ItemID: task.Items[0].ID, CountedQuantity: dec(38)},
	})
	require.NoError(t, err)

	task, err = f.uc.CompleteCycleCount(ctx, manager(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDone, task.Status)
	require.NotEmpty(t, task.CycleCount.GeneratedAdjustmentID, "el conteo referencia al ajuste generado")

	adj, err := f.docs.GetByID(task.CycleCount.GeneratedAdjustmentID)
	require.NoError(t, err)
	require.NotNil(t, adj)
	assert.Equal(t, entity.KindAdjustment, adj.Kind)
	assert.Equal(t, entity.StatusDone, adj.Status)
	assert.Equal(t, entity.AdjustmentSet, adj.Adjustment.AdjustmentType)
	assert.Contains(t, adj.Adjustment.Reason, task.Number)

	assert.True(t, f.balance(t, "prod-1", "wh-main").Equal(dec(38)))
	entries, _ := f.ledger.List(ledgerFilterForDoc(adj.Number))
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Quantity.Equal(dec(-2)), "la varianza contado - vivo se asienta como set")
	assert.True(t, entries[0].BalanceAfter.Equal(dec(38)))
}

func TestConteoCiclico_SinVarianzaNoGeneraAjuste(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.setBalance("prod-1", "wh-main", 40, 0)
	ctx := context.Background()

	task := f.createReady(t, manager(), cycleCountInput(40))
	task, err := f.uc.UpdateCounts(ctx, manager(), task.ID, []CountInput{
		{ItemID: task.Items[0].ID, CountedQuantity: dec(40)},
	})
	require.NoError(t, err)

	task, err = f.uc.CompleteCycleCount(ctx, manager(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDone, task.Status)
	assert.Empty(t, task.CycleCount.GeneratedAdjustmentID)

	adjs, _ := f.docs.List(repository.DocumentFilter{Kind: entity.KindAdjustment})
	assert.Empty(t, adjs)
	assert.True(t, f.balance(t, "prod-1", "wh-main").Equal(dec(40)))
}

func TestConteoCiclico_SinSaldoUsaEsperadaComoActual(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	ctx := context.Background()

	// Sin fila de saldo: la cantidad actual cae a la esperada (40).
	task := f.createReady(t, manager(), cycleCountInput(40))
	task, err := f.uc.UpdateCounts(ctx, manager(), task.ID, []CountInput{
		{ItemID: task.Items[0].ID, CountedQuantity: dec(35)},
	})
	require.NoError(t, err)

	task, err = f.uc.CompleteCycleCount(ctx, manager(), task.ID)
	require.NoError(t, err)
	require.NotEmpty(t, task.CycleCount.GeneratedAdjustmentID)
	assert.True(t, f.balance(t, "prod-1", "wh-main").Equal(dec(35)), "set deja el saldo en lo contado")
}

func TestConteoCiclico_UpdateCountsSoloEnReady(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	ctx := context.Background()

	task, err := f.uc.Create(ctx, manager(), cycleCountInput(10))
	require.NoError(t, err)

	_, err = f.uc.UpdateCounts(ctx, manager(), task.ID, []CountInput{
		{ItemID: task.Items[0].ID, CountedQuantity: dec(9)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestConteoCiclico_NoPasaPorValidate(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	ctx := context.Background()

	task := f.createReady(t, manager(), cycleCountInput(10))
	_, err := f.uc.ValidateAndComplete(ctx, manager(), task.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestConteoCiclico_NuncaEstampaGate(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	f.policies.Create(&entity.ApprovalPolicy{
		ID: "pol-1", DocumentKind: entity.KindCycleCount, IsActive: true,
	})

	task, err := f.uc.Create(context.Background(), manager(), cycleCountInput(10))
	require.NoError(t, err)
	assert.False(t, task.RequiresApproval, "los conteos cíclicos no pasan por políticas")
}

func TestConteoCiclico_ConsecutivoPropio(t *testing.T) {
	f := newEngineFixture(rbac.ScopingPolicy{})
	task, err := f.uc.Create(context.Background(), manager(), cycleCountInput(10))
	require.NoError(t, err)
	assert.Equal(t, "CC-000001", task.Number)
}

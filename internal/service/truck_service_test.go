package service

import (
	"context"
	"testing"

	"cargohub/internal/dto"
	"cargohub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruckCreate_DuplicatePlateRejected(t *testing.T) {
	trucks := newStubTruckRepo()
	svc := NewTruckService(trucks, newStubCarrierRepo())

	_, err := svc.Create(context.Background(), dto.CreateTruckRequest{
		LicensePlate: "AB123CD", Model: "Scania R450", CapacityKg: 24000,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.CreateTruckRequest{
		LicensePlate: "AB123CD", Model: "Volvo FH", CapacityKg: 20000,
	})
	require.Error(t, err)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestTruckCreate_DefaultsFuelToDiesel(t *testing.T) {
	trucks := newStubTruckRepo()
	svc := NewTruckService(trucks, newStubCarrierRepo())

	resp, err := svc.Create(context.Background(), dto.CreateTruckRequest{
		LicensePlate: "XY987ZT", Model: "Iveco Stralis", CapacityKg: 18000,
	})
	require.NoError(t, err)
	assert.Equal(t, "diesel", resp.FuelType)
	assert.Equal(t, string(model.TruckAvailable), resp.Status)
}

func TestTruckMaintenanceToggle(t *testing.T) {
	trucks := newStubTruckRepo()
	svc := NewTruckService(trucks, newStubCarrierRepo())
	tr := trucks.seed(&model.Truck{LicensePlate: "ML001ML", Status: model.TruckAvailable})

	resp, err := svc.UpdateStatus(context.Background(), tr.ID, model.TruckMaintenance)
	require.NoError(t, err)
	assert.Equal(t, string(model.TruckMaintenance), resp.Status)

	resp, err = svc.UpdateStatus(context.Background(), tr.ID, model.TruckAvailable)
	require.NoError(t, err)
	assert.Equal(t, string(model.TruckAvailable), resp.Status)
}

func TestTruckUpdateStatus_AssignedTruckFollowsCarrier(t *testing.T) {
	trucks := newStubTruckRepo()
	svc := NewTruckService(trucks, newStubCarrierRepo())
	tr := trucks.seed(&model.Truck{LicensePlate: "ML002ML", Status: model.TruckAssigned})

	_, err := svc.UpdateStatus(context.Background(), tr.ID, model.TruckMaintenance)
	assert.True(t, IsConflict(err))
}

func TestTruckDelete_ReleasesCarrier(t *testing.T) {
	trucks := newStubTruckRepo()
	carriers := newStubCarrierRepo()
	svc := NewTruckService(trucks, carriers)

	tr := trucks.seed(&model.Truck{LicensePlate: "ML003ML", Status: model.TruckAssigned})
	c := carriers.seed(&model.Carrier{Name: "c1", Status: model.CarrierAssigned, TruckID: &tr.ID})
	tr.CarrierID = &c.ID

	err := svc.Delete(context.Background(), tr.ID)
	require.NoError(t, err)

	got, err := carriers.FindByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CarrierAvailable, got.Status)
	assert.Nil(t, got.TruckID)

	_, err = trucks.FindByID(context.Background(), tr.ID)
	assert.Error(t, err)
}

func TestTruckDelete_BlockedWhileCarrierOnRoute(t *testing.T) {
	trucks := newStubTruckRepo()
	carriers := newStubCarrierRepo()
	svc := NewTruckService(trucks, carriers)

	tr := trucks.seed(&model.Truck{LicensePlate: "ML004ML", Status: model.TruckOnRoute})
	c := carriers.seed(&model.Carrier{Name: "c1", Status: model.CarrierOnRoute, TruckID: &tr.ID})
	tr.CarrierID = &c.ID

	err := svc.Delete(context.Background(), tr.ID)
	require.Error(t, err)
	assert.True(t, IsPartialFailure(err))

	// the truck survives
	_, err = trucks.FindByID(context.Background(), tr.ID)
	assert.NoError(t, err)
}

// A failed carrier lookup must surface as a partial failure rather than the
// truck being deleted with the release step silently skipped.
func TestTruckDelete_CarrierLookupFails(t *testing.T) {
	trucks := newStubTruckRepo()
	carriers := newStubCarrierRepo()
	svc := NewTruckService(trucks, carriers)

	gone := uuid.New()
	tr := trucks.seed(&model.Truck{LicensePlate: "ML005ML", Status: model.TruckAssigned})
	tr.CarrierID = &gone

	err := svc.Delete(context.Background(), tr.ID)
	require.Error(t, err)
	assert.True(t, IsPartialFailure(err))

	// the truck survives
	_, err = trucks.FindByID(context.Background(), tr.ID)
	assert.NoError(t, err)
}

package service

import (
	"context"
	"sync"
	"testing"

	"cargohub/internal/dto"
	"cargohub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCarrierFixture() (*stubCarrierRepo, *stubTruckRepo, *stubRouteRepo, CarrierService) {
	carriers := newStubCarrierRepo()
	trucks := newStubTruckRepo()
	routes := newStubRouteRepo()
	return carriers, trucks, routes, NewCarrierService(carriers, trucks, routes)
}

func TestCarrierCreate_StartsAvailable(t *testing.T) {
	_, _, _, svc := newCarrierFixture()

	resp, err := svc.Create(context.Background(), dto.CreateCarrierRequest{
		Name:          "Marta Ibanez",
		DNI:           "30111222",
		LicenseNumber: "C-9001",
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.CarrierAvailable), resp.Status)
	assert.Nil(t, resp.TruckID)
}

func TestCarrierUpdateStatus_AvailableToResting(t *testing.T) {
	carriers, _, _, svc := newCarrierFixture()
	c := carriers.seed(&model.Carrier{Name: "c1", Status: model.CarrierAvailable})

	resp, err := svc.UpdateStatus(context.Background(), c.ID, model.CarrierResting)
	require.NoError(t, err)
	assert.Equal(t, string(model.CarrierResting), resp.Status)
}

func TestCarrierUpdateStatus_SameStatusIsNoop(t *testing.T) {
	carriers, _, _, svc := newCarrierFixture()
	c := carriers.seed(&model.Carrier{Name: "c1", Status: model.CarrierResting})

	resp, err := svc.UpdateStatus(context.Background(), c.ID, model.CarrierResting)
	require.NoError(t, err)
	assert.Equal(t, string(model.CarrierResting), resp.Status)
}

func TestCarrierUpdateStatus_IllegalTransition(t *testing.T) {
	carriers, _, _, svc := newCarrierFixture()
	c := carriers.seed(&model.Carrier{Name: "c1", Status: model.CarrierOnRoute})

	_, err := svc.UpdateStatus(context.Background(), c.ID, model.CarrierResting)
	assert.True(t, IsConflict(err))
}

func TestAssignTruck_BothSidesMove(t *testing.T) {
	carriers, trucks, _, svc := newCarrierFixture()
	c := carriers.seed(&model.Carrier{Name: "c1", Status: model.CarrierAvailable})
	tr := trucks.seed(&model.Truck{LicensePlate: "AB123CD", Status: model.TruckAvailable})

	resp, err := svc.AssignTruck(context.Background(), c.ID, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.CarrierAssigned), resp.Status)
	require.NotNil(t, resp.TruckID)
	assert.Equal(t, tr.ID.String(), *resp.TruckID)

	got, err := trucks.FindByID(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TruckAssigned, got.Status)
	require.NotNil(t, got.CarrierID)
	assert.Equal(t, c.ID, *got.CarrierID)
}

func TestAssignTruck_CarrierAlreadyHasTruck(t *testing.T) {
	carriers, trucks, _, svc := newCarrierFixture()
	held := trucks.seed(&model.Truck{LicensePlate: "AA000AA", Status: model.TruckAssigned})
	c := carriers.seed(&model.Carrier{Name: "c1", Status: model.CarrierAssigned, TruckID: &held.ID})
	spare := trucks.seed(&model.Truck{LicensePlate: "BB111BB", Status: model.TruckAvailable})

	_, err := svc.AssignTruck(context.Background(), c.ID, spare.ID)
	assert.True(t, IsConflict(err))
}

func TestAssignTruck_TruckNotAvailable(t *testing.T) {
	carriers, trucks, _, svc := newCarrierFixture()
	c := carriers.seed(&model.Carrier{Name: "c1", Status: model.CarrierAvailable})
	tr := trucks.seed(&model.Truck{LicensePlate: "CC222CC", Status: model.TruckMaintenance})

	_, err := svc.AssignTruck(context.Background(), c.ID, tr.ID)
	assert.True(t, IsConflict(err))
}

// Two carriers race for the same truck: exactly one wins, the loser gets a
// conflict, and the truck ends up bound to the winner only.
func TestAssignTruck_ConcurrentClaim(t *testing.T) {
	carriers, trucks, _, svc := newCarrierFixture()
	c1 := carriers.seed(&model.Carrier{Name: "c1", Status: model.CarrierAvailable})
	c2 := carriers.seed(&model.Carrier{Name: "c2", Status: model.CarrierAvailable})
	tr := trucks.seed(&model.Truck{LicensePlate: "DD333DD", Status: model.TruckAvailable})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, carrierID := range []uuid.UUID{c1.ID, c2.ID} {
		wg.Add(1)
		go func(slot int, carrierID uuid.UUID) {
			defer wg.Done()
			_, errs[slot] = svc.AssignTruck(context.Background(), carrierID, tr.ID)
		}(i, carrierID)
	}
	wg.Wait()

	var conflicts int
	for _, err := range errs {
		if err != nil {
			assert.True(t, IsConflict(err))
			conflicts++
		}
	}
	assert.Equal(t, 1, conflicts)

	got, err := trucks.FindByID(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TruckAssigned, got.Status)
	require.NotNil(t, got.CarrierID)
}

func TestUnassignTruck_RoundTrip(t *testing.T) {
	carriers, trucks, _, svc := newCarrierFixture()
	c := carriers.seed(&model.Carrier{Name: "c1", Status: model.CarrierAvailable})
	tr := trucks.seed(&model.Truck{LicensePlate: "EE444EE", Status: model.TruckAvailable})

	_, err := svc.AssignTruck(context.Background(), c.ID, tr.ID)
	require.NoError(t, err)

	resp, err := svc.UnassignTruck(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.CarrierAvailable), resp.Status)
	assert.Nil(t, resp.TruckID)

	got, err := trucks.FindByID(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TruckAvailable, got.Status)
	assert.Nil(t, got.CarrierID)
}

func TestUnassignTruck_RefusedOnRoute(t *testing.T) {
	carriers, trucks, _, svc := newCarrierFixture()
	tr := trucks.seed(&model.Truck{LicensePlate: "FF555FF", Status: model.TruckOnRoute})
	c := carriers.seed(&model.Carrier{Name: "c1", Status: model.CarrierOnRoute, TruckID: &tr.ID})

	_, err := svc.UnassignTruck(context.Background(), c.ID)
	assert.True(t, IsConflict(err))
}

func TestUnassignTruck_NoTruckBound(t *testing.T) {
	carriers, _, _, svc := newCarrierFixture()
	c := carriers.seed(&model.Carrier{Name: "c1", Status: model.CarrierAvailable})

	_, err := svc.UnassignTruck(context.Background(), c.ID)
	assert.True(t, IsConflict(err))
}

func TestCarrierDelete_ReleasesTruckAndRoutes(t *testing.T) {
	carriers, trucks, routes, svc := newCarrierFixture()
	tr := trucks.seed(&model.Truck{LicensePlate: "GG666GG", Status: model.TruckAssigned})
	c := carriers.seed(&model.Carrier{Name: "c1", Status: model.CarrierAssigned, TruckID: &tr.ID})
	rt := routes.seed(&model.Route{Origin: "A", Destination: "B", Status: model.RoutePending, CarrierID: &c.ID})

	err := svc.Delete(context.Background(), c.ID)
	require.NoError(t, err)

	_, err = carriers.FindByID(context.Background(), c.ID)
	assert.Error(t, err)

	gotTruck, err := trucks.FindByID(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TruckAvailable, gotTruck.Status)
	assert.Nil(t, gotTruck.CarrierID)

	gotRoute, err := routes.FindByID(context.Background(), rt.ID)
	require.NoError(t, err)
	assert.Nil(t, gotRoute.CarrierID)
}

func TestCarrierDelete_BlockedByRouteInTransit(t *testing.T) {
	carriers, trucks, routes, svc := newCarrierFixture()
	tr := trucks.seed(&model.Truck{LicensePlate: "HH777HH", Status: model.TruckOnRoute})
	c := carriers.seed(&model.Carrier{Name: "c1", Status: model.CarrierOnRoute, TruckID: &tr.ID})
	routes.seed(&model.Route{Origin: "A", Destination: "B", Status: model.RouteInTransit, CarrierID: &c.ID})

	err := svc.Delete(context.Background(), c.ID)
	require.Error(t, err)
	assert.True(t, IsPartialFailure(err))

	// carrier survives
	_, err = carriers.FindByID(context.Background(), c.ID)
	assert.NoError(t, err)
}

func TestCarrierGet_NotFound(t *testing.T) {
	_, _, _, svc := newCarrierFixture()

	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, IsNotFound(err))
}

// A carrier holding a truck may not rest until the truck is released; after
// releasing, resting works and the truck is free to be claimed again.
func TestCarrierRest_RefusedWhileHoldingTruck(t *testing.T) {
	carriers, trucks, _, svc := newCarrierFixture()
	c := carriers.seed(&model.Carrier{Name: "c1", Status: model.CarrierAvailable})
	tr := trucks.seed(&model.Truck{LicensePlate: "DD333DD", Status: model.TruckAvailable})

	_, err := svc.AssignTruck(context.Background(), c.ID, tr.ID)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), c.ID, model.CarrierResting)
	assert.True(t, IsConflict(err))

	got, err := carriers.FindByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CarrierAssigned, got.Status)
	require.NotNil(t, got.TruckID)

	_, err = svc.UnassignTruck(context.Background(), c.ID)
	require.NoError(t, err)

	resp, err := svc.UpdateStatus(context.Background(), c.ID, model.CarrierResting)
	require.NoError(t, err)
	assert.Equal(t, string(model.CarrierResting), resp.Status)

	freed, err := trucks.FindByID(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TruckAvailable, freed.Status)
	assert.Nil(t, freed.CarrierID)
}

func TestCarrierStatus_DeactivateReactivate(t *testing.T) {
	carriers, _, _, svc := newCarrierFixture()
	c := carriers.seed(&model.Carrier{Name: "c1", Status: model.CarrierAvailable})

	resp, err := svc.UpdateStatus(context.Background(), c.ID, model.CarrierInactive)
	require.NoError(t, err)
	assert.Equal(t, string(model.CarrierInactive), resp.Status)

	resp, err = svc.UpdateStatus(context.Background(), c.ID, model.CarrierAvailable)
	require.NoError(t, err)
	assert.Equal(t, string(model.CarrierAvailable), resp.Status)
}

func TestCarrierStatus_AssignedCannotDeactivate(t *testing.T) {
	carriers, trucks, _, svc := newCarrierFixture()
	tr := trucks.seed(&model.Truck{LicensePlate: "EE444EE", Status: model.TruckAssigned})
	c := carriers.seed(&model.Carrier{Name: "c1", Status: model.CarrierAssigned, TruckID: &tr.ID})

	_, err := svc.UpdateStatus(context.Background(), c.ID, model.CarrierInactive)
	assert.True(t, IsConflict(err))
}

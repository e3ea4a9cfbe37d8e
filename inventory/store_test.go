package inventory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/liamcoop/carmatch/matching"
)

func testCars() []matching.Car {
	return []matching.Car{
		{ID: 1, Brand: "Toyota", Model: "Innova", FuelType: "Diesel", Mileage: 60000, BasePrice: 1500000, IsActive: true},
		{ID: 2, Brand: "Maruti", Model: "Swift", FuelType: "Petrol", Mileage: 30000, BasePrice: 700000, IsActive: true},
		{ID: 3, Brand: "BMW", Model: "3 Series", FuelType: "Petrol", Mileage: 40000, BasePrice: 3500000, IsActive: true},
		{ID: 4, Brand: "Fiat", Model: "Punto", FuelType: "Petrol", Mileage: 110000, BasePrice: 250000, IsActive: false},
	}
}

func ids(cars []matching.Car) []int64 {
	out := make([]int64, len(cars))
	for i, c := range cars {
		out[i] = c.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestInMemoryStoreSearch(t *testing.T) {
	store := NewInMemoryStore(testCars())
	ctx := context.Background()

	testCases := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"active only newest first", Filter{}, []int64{3, 2, 1}},
		{"min price", Filter{MinPrice: 1000000}, []int64{3, 1}},
		{"max price", Filter{MaxPrice: 1500000}, []int64{2, 1}},
		{"price band", Filter{MinPrice: 600000, MaxPrice: 2000000}, []int64{2, 1}},
		{"fuel type", Filter{FuelType: "Petrol"}, []int64{3, 2}},
		{"min mileage is a lower bound", Filter{MinMileage: 40000}, []int64{3, 1}},
		{"nothing matches", Filter{FuelType: "Hydrogen"}, []int64{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := store.Search(ctx, tc.filter)
			if err != nil {
				t.Fatalf("Search() failed: %v", err)
			}
			if !equalIDs(ids(got), tc.want) {
				t.Errorf("Search(%+v) = %v, want %v", tc.filter, ids(got), tc.want)
			}
		})
	}
}

func TestInMemoryStoreGet(t *testing.T) {
	store := NewInMemoryStore(testCars())
	ctx := context.Background()

	// inactive cars are still retrievable by id
	car, err := store.Get(ctx, 4)
	if err != nil {
		t.Fatalf("Get(4) failed: %v", err)
	}
	if car.Model != "Punto" {
		t.Errorf("Get(4) = %+v", car)
	}

	if _, err := store.Get(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(99) error = %v, want ErrNotFound", err)
	}
}

func TestInMemoryStoreCopiesInput(t *testing.T) {
	cars := testCars()
	store := NewInMemoryStore(cars)
	cars[0].BasePrice = 1

	got, _ := store.Get(context.Background(), 1)
	if got.BasePrice != 1500000 {
		t.Error("store shares its backing slice with the caller")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cars.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadCarsFromFile(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{"valid", `[{"id":1,"brand":"Tata","model":"Nexon","year":2022,"base_price":1250000,"body_type":"Compact_SUV","fuel_efficiency":17.5,"is_active":true}]`, 1, false},
		{"empty list", `[]`, 0, false},
		{"malformed", `[{"id":1,`, 0, true},
		{"missing id", `[{"brand":"Tata"}]`, 0, true},
		{"duplicate id", `[{"id":1},{"id":1}]`, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cars, err := LoadCarsFromFile(writeFile(t, tc.content))
			if (err != nil) != tc.wantErr {
				t.Fatalf("LoadCarsFromFile() error = %v, wantErr %v", err, tc.wantErr)
			}
			if len(cars) != tc.want {
				t.Errorf("loaded %d cars, want %d", len(cars), tc.want)
			}
		})
	}

	if _, err := LoadCarsFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadCarsFromFile() should fail for a missing file")
	}
}

// TestSeedInventory verifies the bundled seed file loads and has active cars
func TestSeedInventory(t *testing.T) {
	store, err := NewInMemoryStoreFromFile(filepath.Join("..", "data", "cars.json"))
	if err != nil {
		t.Fatalf("NewInMemoryStoreFromFile() failed: %v", err)
	}

	active, err := store.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive() failed: %v", err)
	}
	if len(active) == 0 {
		t.Fatal("seed inventory has no active cars")
	}
	for _, c := range active {
		if !c.IsActive || c.Brand == "" || c.BasePrice <= 0 {
			t.Errorf("bad seed car: %+v", c)
		}
	}
}

package services

import (
	"testing"

	"chapterfund/internal/testutil"
)

func TestListCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	testutil.CreateTestCategory(t, db, "Food")
	testutil.CreateTestCategory(t, db, "Travel")

	categories, err := svc.ListCategories()
	testutil.AssertNoError(t, err)

	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	// Alphabetical by name.
	if categories[0].Name != "Food" || categories[1].Name != "Travel" {
		t.Errorf("expected Food, Travel; got %s, %s", categories[0].Name, categories[1].Name)
	}
	if len(categories[0].Subcategories) != 2 {
		t.Errorf("expected subcategories to round-trip, got %v", categories[0].Subcategories)
	}
}

func TestGetCategoryByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	testutil.CreateTestCategory(t, db, "Equipment")

	category, err := svc.GetCategoryByName("Equipment")
	testutil.AssertNoError(t, err)
	if category.Name != "Equipment" {
		t.Errorf("expected Equipment, got %s", category.Name)
	}

	_, err = svc.GetCategoryByName("Nope")
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}

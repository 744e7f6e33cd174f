package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"comandero/internal/apperrors"
	"comandero/internal/models"
	"comandero/internal/repositories"
)

// newTestDB opens a private in-memory SQLite database. The pool is
// capped at one connection so every query sees the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Employee{},
		&models.Restaurant{},
		&models.Employment{},
		&models.Item{},
		&models.Commanda{},
		&models.Order{},
	))
	return db
}

type fixture struct {
	db          *gorm.DB
	employees   *repositories.GORMEmployeeRepository
	restaurants *repositories.GORMRestaurantRepository
	employments *repositories.GORMEmploymentRepository
	items       *repositories.GORMItemRepository
	commandas   *repositories.GORMCommandaRepository
	orders      *repositories.GORMOrderRepository
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	return &fixture{
		db:          db,
		employees:   repositories.NewGORMEmployeeRepository(db),
		restaurants: repositories.NewGORMRestaurantRepository(db),
		employments: repositories.NewGORMEmploymentRepository(db),
		items:       repositories.NewGORMItemRepository(db),
		commandas:   repositories.NewGORMCommandaRepository(db),
		orders:      repositories.NewGORMOrderRepository(db),
	}
}

func (f *fixture) employee(t *testing.T, publicID, username string) {
	t.Helper()
	require.NoError(t, f.employees.Create(&models.Employee{
		PublicID: publicID,
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-digest",
	}))
}

func (f *fixture) restaurant(t *testing.T, publicID, name, adminPublicID string) {
	t.Helper()
	require.NoError(t, f.restaurants.CreateWithAdmin(&models.Restaurant{
		PublicID: publicID,
		Name:     name,
		Address:  "1 Main St",
	}, adminPublicID))
}

func (f *fixture) item(t *testing.T, publicID, name string, restaurantID string) {
	t.Helper()
	require.NoError(t, f.items.Create(&models.Item{
		PublicID:  publicID,
		Name:      name,
		Price:     500,
		Available: true,
	}, restaurantID))
}

func (f *fixture) commanda(t *testing.T, publicID, customer, restaurantID string) {
	t.Helper()
	require.NoError(t, f.commandas.Create(&models.Commanda{
		PublicID:     publicID,
		CustomerName: customer,
	}, restaurantID))
}

const (
	aliceID = "empAlice00000000"
	bobID   = "empBob0000000000"
	cafeID  = "resCafe000000000"
	dinerID = "resDiner00000000"
)

func TestEmployeeRepository(t *testing.T) {
	f := newFixture(t)
	f.employee(t, aliceID, "alice")

	t.Run("duplicate username conflicts", func(t *testing.T) {
		err := f.employees.Create(&models.Employee{
			PublicID: "empOther00000000",
			Username: "alice",
			Email:    "other@example.com",
			Password: "x",
		})
		assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	})

	t.Run("lookup by public id, username and email", func(t *testing.T) {
		byID, err := f.employees.GetByPublicID(aliceID)
		require.NoError(t, err)
		assert.Equal(t, "alice", byID.Username)

		byName, err := f.employees.GetByUsername("alice")
		require.NoError(t, err)
		assert.Equal(t, aliceID, byName.PublicID)

		byEmail, err := f.employees.GetByEmail("alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, aliceID, byEmail.PublicID)
	})

	t.Run("unknown employee is not found", func(t *testing.T) {
		_, err := f.employees.GetByPublicID("empMissing000000")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})

	t.Run("partial update leaves other fields", func(t *testing.T) {
		email := "alice@new.example.com"
		require.NoError(t, f.employees.Update(aliceID, repositories.EmployeeUpdate{Email: &email}))

		employee, err := f.employees.GetByPublicID(aliceID)
		require.NoError(t, err)
		assert.Equal(t, "alice", employee.Username)
		assert.Equal(t, email, employee.Email)
	})

	t.Run("rotate public id invalidates the old one", func(t *testing.T) {
		f.employee(t, "empRotate0000000", "rotator")
		require.NoError(t, f.employees.RotatePublicID("empRotate0000000", "empRotated000000"))

		_, err := f.employees.GetByPublicID("empRotate0000000")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

		employee, err := f.employees.GetByPublicID("empRotated000000")
		require.NoError(t, err)
		assert.Equal(t, "rotator", employee.Username)
	})
}

func TestRestaurantCreatorBecomesAdmin(t *testing.T) {
	f := newFixture(t)
	f.employee(t, aliceID, "alice")
	f.restaurant(t, cafeID, "Cafe", aliceID)

	role, err := f.employments.RoleOf(aliceID, cafeID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	count, err := f.employments.CountMembers(cafeID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRestaurantCreateUnknownCreator(t *testing.T) {
	f := newFixture(t)

	err := f.restaurants.CreateWithAdmin(&models.Restaurant{
		PublicID: cafeID,
		Name:     "Cafe",
	}, "empMissing000000")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	// The transaction rolled back: no orphan restaurant row.
	_, err = f.restaurants.GetByPublicID(cafeID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestRoleOfNonMemberIsForbidden(t *testing.T) {
	f := newFixture(t)
	f.employee(t, aliceID, "alice")
	f.employee(t, bobID, "bob")
	f.restaurant(t, cafeID, "Cafe", aliceID)

	_, err := f.employments.RoleOf(bobID, cafeID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	assert.False(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestEmploymentLifecycle(t *testing.T) {
	f := newFixture(t)
	f.employee(t, aliceID, "alice")
	f.employee(t, bobID, "bob")
	f.restaurant(t, cafeID, "Cafe", aliceID)

	require.NoError(t, f.employments.Add(bobID, cafeID, models.RoleEmployee))

	t.Run("double add conflicts and count stays", func(t *testing.T) {
		err := f.employments.Add(bobID, cafeID, models.RoleEmployee)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

		count, err := f.employments.CountMembers(cafeID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})

	t.Run("set role promotes", func(t *testing.T) {
		require.NoError(t, f.employments.SetRole(bobID, cafeID, models.RoleAdmin))

		role, err := f.employments.RoleOf(bobID, cafeID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, role)
	})

	t.Run("set role for non-member is forbidden", func(t *testing.T) {
		f.employee(t, "empCarol00000000", "carol")
		err := f.employments.SetRole("empCarol00000000", cafeID, models.RoleAdmin)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	})

	t.Run("list members carries roles", func(t *testing.T) {
		members, err := f.employments.ListMembers(cafeID)
		require.NoError(t, err)
		require.Len(t, members, 2)

		byID := map[string]models.Role{}
		for _, m := range members {
			byID[m.ID] = m.Role
		}
		assert.Equal(t, models.RoleAdmin, byID[aliceID])
		assert.Equal(t, models.RoleAdmin, byID[bobID])
	})

	t.Run("remove and re-add", func(t *testing.T) {
		require.NoError(t, f.employments.Remove(bobID, cafeID))

		_, err := f.employments.RoleOf(bobID, cafeID)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

		// Re-hiring after a dismissal is a fresh membership.
		require.NoError(t, f.employments.Add(bobID, cafeID, models.RoleEmployee))
		role, err := f.employments.RoleOf(bobID, cafeID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleEmployee, role)
	})
}

func TestRemovingLastAdminIsAllowed(t *testing.T) {
	f := newFixture(t)
	f.employee(t, aliceID, "alice")
	f.restaurant(t, cafeID, "Cafe", aliceID)

	require.NoError(t, f.employments.Remove(aliceID, cafeID))

	count, err := f.employments.CountMembers(cafeID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestItemRepository(t *testing.T) {
	f := newFixture(t)
	f.employee(t, aliceID, "alice")
	f.restaurant(t, cafeID, "Cafe", aliceID)

	t.Run("description round-trips as absent", func(t *testing.T) {
		f.item(t, "itemPlain0000000", "Espresso", cafeID)

		item, err := f.items.GetByPublicID("itemPlain0000000")
		require.NoError(t, err)
		assert.Nil(t, item.Description)
		assert.Equal(t, cafeID, item.RestaurantID)
	})

	t.Run("description round-trips when set", func(t *testing.T) {
		desc := "double shot"
		require.NoError(t, f.items.Create(&models.Item{
			PublicID:    "itemDesc00000000",
			Name:        "Doppio",
			Price:       700,
			Description: &desc,
			Available:   true,
		}, cafeID))

		item, err := f.items.GetByPublicID("itemDesc00000000")
		require.NoError(t, err)
		require.NotNil(t, item.Description)
		assert.Equal(t, desc, *item.Description)
	})

	t.Run("create for unknown restaurant fails", func(t *testing.T) {
		err := f.items.Create(&models.Item{
			PublicID: "itemOrphan000000",
			Name:     "Ghost",
			Price:    100,
		}, "resMissing000000")
		assert.Error(t, err)
	})

	t.Run("listing hides unavailable items unless asked", func(t *testing.T) {
		require.NoError(t, f.items.SetAvailability("itemDesc00000000", false))

		visible, err := f.items.ListByRestaurant(cafeID, false)
		require.NoError(t, err)
		require.Len(t, visible, 1)
		assert.Equal(t, "itemPlain0000000", visible[0].ID)

		all, err := f.items.ListByRestaurant(cafeID, true)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("count ignores availability", func(t *testing.T) {
		count, err := f.items.CountByRestaurant(cafeID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})

	t.Run("delete removes the item", func(t *testing.T) {
		require.NoError(t, f.items.Delete("itemDesc00000000"))
		_, err := f.items.GetByPublicID("itemDesc00000000")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})
}

func TestCommandaRepository(t *testing.T) {
	f := newFixture(t)
	f.employee(t, aliceID, "alice")
	f.restaurant(t, cafeID, "Cafe", aliceID)

	table := 4
	require.NoError(t, f.commandas.Create(&models.Commanda{
		PublicID:     "cmdTable40000000",
		CustomerName: "Dana",
		TableNumber:  &table,
	}, cafeID))
	f.commanda(t, "cmdWalkIn0000000", "Eve", cafeID)

	t.Run("get carries table number and owner", func(t *testing.T) {
		commanda, err := f.commandas.GetByPublicID("cmdTable40000000")
		require.NoError(t, err)
		assert.Equal(t, "Dana", commanda.CustomerName)
		require.NotNil(t, commanda.TableNumber)
		assert.Equal(t, 4, *commanda.TableNumber)
		assert.Equal(t, cafeID, commanda.RestaurantID)
	})

	t.Run("walk-in has no table number", func(t *testing.T) {
		commanda, err := f.commandas.GetByPublicID("cmdWalkIn0000000")
		require.NoError(t, err)
		assert.Nil(t, commanda.TableNumber)
	})

	t.Run("list is scoped to the restaurant", func(t *testing.T) {
		f.employee(t, bobID, "bob")
		f.restaurant(t, dinerID, "Diner", bobID)
		f.commanda(t, "cmdElsewhere0000", "Frank", dinerID)

		commandas, err := f.commandas.ListByRestaurant(cafeID)
		require.NoError(t, err)
		assert.Len(t, commandas, 2)
	})

	t.Run("delete removes the commanda", func(t *testing.T) {
		require.NoError(t, f.commandas.Delete("cmdWalkIn0000000"))
		_, err := f.commandas.GetByPublicID("cmdWalkIn0000000")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})
}

func TestOrderCreateCrossTenantIsRejected(t *testing.T) {
	f := newFixture(t)
	f.employee(t, aliceID, "alice")
	f.employee(t, bobID, "bob")
	f.restaurant(t, cafeID, "Cafe", aliceID)
	f.restaurant(t, dinerID, "Diner", bobID)
	f.commanda(t, "cmdAtCafe0000000", "Dana", cafeID)
	f.item(t, "itemAtDiner00000", "Burger", dinerID)

	err := f.orders.Create(repositories.OrderCreate{
		PublicID:   "ordCross00000000",
		Quantity:   1,
		Priority:   models.PriorityLow,
		Status:     models.StatusPending,
		ItemID:     "itemAtDiner00000",
		CommandaID: "cmdAtCafe0000000",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	count, err := f.orders.CountByCommanda("cmdAtCafe0000000")
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestOrderCreateMissingParents(t *testing.T) {
	f := newFixture(t)
	f.employee(t, aliceID, "alice")
	f.restaurant(t, cafeID, "Cafe", aliceID)
	f.commanda(t, "cmdAtCafe0000000", "Dana", cafeID)
	f.item(t, "itemAtCafe000000", "Espresso", cafeID)

	err := f.orders.Create(repositories.OrderCreate{
		PublicID:   "ordNoCommanda000",
		Quantity:   1,
		Priority:   models.PriorityLow,
		Status:     models.StatusPending,
		ItemID:     "itemAtCafe000000",
		CommandaID: "cmdMissing000000",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	err = f.orders.Create(repositories.OrderCreate{
		PublicID:   "ordNoItem0000000",
		Quantity:   1,
		Priority:   models.PriorityLow,
		Status:     models.StatusPending,
		ItemID:     "itemMissing00000",
		CommandaID: "cmdAtCafe0000000",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestOrderLifecycle(t *testing.T) {
	f := newFixture(t)
	f.employee(t, aliceID, "alice")
	f.restaurant(t, cafeID, "Cafe", aliceID)
	f.commanda(t, "cmdAtCafe0000000", "Dana", cafeID)
	f.item(t, "itemEspresso0000", "Espresso", cafeID)

	notes := "no sugar"
	require.NoError(t, f.orders.Create(repositories.OrderCreate{
		PublicID:   "ordEspresso00000",
		Quantity:   2,
		Priority:   models.PriorityHigh,
		Status:     models.StatusPending,
		Notes:      &notes,
		ItemID:     "itemEspresso0000",
		CommandaID: "cmdAtCafe0000000",
	}))

	t.Run("get joins item and restaurant", func(t *testing.T) {
		order, err := f.orders.GetByPublicID("ordEspresso00000")
		require.NoError(t, err)
		assert.Equal(t, 2, order.Quantity)
		assert.Equal(t, models.PriorityHigh, order.Priority)
		assert.Equal(t, "Espresso", order.ItemName)
		assert.Equal(t, cafeID, order.RestaurantID)
		require.NotNil(t, order.Notes)
		assert.Equal(t, notes, *order.Notes)
	})

	t.Run("partial update touches only named fields", func(t *testing.T) {
		status := models.StatusInProgress
		require.NoError(t, f.orders.Update("ordEspresso00000", repositories.OrderUpdate{Status: &status}))

		order, err := f.orders.GetByPublicID("ordEspresso00000")
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, order.Status)
		assert.Equal(t, 2, order.Quantity)
	})

	t.Run("update of unknown order is not found", func(t *testing.T) {
		q := 3
		err := f.orders.Update("ordMissing000000", repositories.OrderUpdate{Quantity: &q})
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})

	t.Run("delete removes the line", func(t *testing.T) {
		require.NoError(t, f.orders.Delete("ordEspresso00000"))
		_, err := f.orders.GetByPublicID("ordEspresso00000")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})
}

func TestOrderListFiltersAndOrdering(t *testing.T) {
	f := newFixture(t)
	f.employee(t, aliceID, "alice")
	f.restaurant(t, cafeID, "Cafe", aliceID)
	f.commanda(t, "cmdAtCafe0000000", "Dana", cafeID)
	f.item(t, "itemEspresso0000", "Espresso", cafeID)
	f.item(t, "itemCroissant000", "Croissant", cafeID)

	seed := []repositories.OrderCreate{
		{PublicID: "ordA000000000000", Quantity: 1, Priority: models.PriorityLow, Status: models.StatusPending, ItemID: "itemEspresso0000", CommandaID: "cmdAtCafe0000000"},
		{PublicID: "ordB000000000000", Quantity: 3, Priority: models.PriorityHigh, Status: models.StatusDone, ItemID: "itemEspresso0000", CommandaID: "cmdAtCafe0000000"},
		{PublicID: "ordC000000000000", Quantity: 2, Priority: models.PriorityHigh, Status: models.StatusPending, ItemID: "itemCroissant000", CommandaID: "cmdAtCafe0000000"},
	}
	for _, o := range seed {
		require.NoError(t, f.orders.Create(o))
	}

	t.Run("status filter", func(t *testing.T) {
		orders, err := f.orders.ListByRestaurant(cafeID, repositories.OrderQuery{Status: models.StatusPending})
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})

	t.Run("priority filter", func(t *testing.T) {
		orders, err := f.orders.ListByRestaurant(cafeID, repositories.OrderQuery{Priority: models.PriorityHigh})
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})

	t.Run("order by quantity descending", func(t *testing.T) {
		orders, err := f.orders.ListByRestaurant(cafeID, repositories.OrderQuery{OrderBy: "quantity", Desc: true})
		require.NoError(t, err)
		require.Len(t, orders, 3)
		assert.Equal(t, "ordB000000000000", orders[0].ID)
		assert.Equal(t, "ordA000000000000", orders[2].ID)
	})

	t.Run("unknown sort column is ignored", func(t *testing.T) {
		orders, err := f.orders.ListByRestaurant(cafeID, repositories.OrderQuery{OrderBy: "password"})
		require.NoError(t, err)
		assert.Len(t, orders, 3)
	})

	t.Run("limit bounds the result", func(t *testing.T) {
		orders, err := f.orders.ListByRestaurant(cafeID, repositories.OrderQuery{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})

	t.Run("commanda order listing", func(t *testing.T) {
		orders, err := f.commandas.ListOrders("cmdAtCafe0000000")
		require.NoError(t, err)
		assert.Len(t, orders, 3)
	})
}

func TestMostSold(t *testing.T) {
	f := newFixture(t)
	f.employee(t, aliceID, "alice")
	f.restaurant(t, cafeID, "Cafe", aliceID)
	f.commanda(t, "cmdAtCafe0000000", "Dana", cafeID)
	f.item(t, "itemEspresso0000", "Espresso", cafeID)
	f.item(t, "itemCroissant000", "Croissant", cafeID)

	t.Run("no orders is not found", func(t *testing.T) {
		_, err := f.orders.MostSold(cafeID)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})

	t.Run("item with most lines wins", func(t *testing.T) {
		seed := []repositories.OrderCreate{
			{PublicID: "ordA000000000000", Quantity: 1, Priority: models.PriorityLow, Status: models.StatusPending, ItemID: "itemEspresso0000", CommandaID: "cmdAtCafe0000000"},
			{PublicID: "ordB000000000000", Quantity: 1, Priority: models.PriorityLow, Status: models.StatusPending, ItemID: "itemEspresso0000", CommandaID: "cmdAtCafe0000000"},
			{PublicID: "ordC000000000000", Quantity: 5, Priority: models.PriorityLow, Status: models.StatusPending, ItemID: "itemCroissant000", CommandaID: "cmdAtCafe0000000"},
		}
		for _, o := range seed {
			require.NoError(t, f.orders.Create(o))
		}

		item, err := f.orders.MostSold(cafeID)
		require.NoError(t, err)
		assert.Equal(t, "itemEspresso0000", item.ID)
		assert.Equal(t, "Espresso", item.Name)
	})
}

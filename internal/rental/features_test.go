package rental_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/calendar"
	"rentpos-backend/internal/customer"
	"rentpos-backend/internal/database/dbtest"
	"rentpos-backend/internal/models"
	"rentpos-backend/internal/rental"

	"github.com/cucumber/godog"
	"go.uber.org/zap"
)

type bookingTestContext struct {
	t        *testing.T
	f        fixture
	products map[string]models.Product
	last     *models.Rental
	err      error
}

func (c *bookingTestContext) reset() {
	db := dbtest.New(c.t)
	engine := calendar.NewEngine(db, nil, zap.NewNop())
	c.f = fixture{db: db, engine: engine, svc: rental.NewService(db, engine, zap.NewNop())}
	c.products = map[string]models.Product{}
	c.last = nil
	c.err = nil
}

func (c *bookingTestContext) aRentableProductPricedPerDay(name string, price float64) error {
	p := models.Product{Name: name, IsRentable: true, RentalPrice: price, Stock: 1}
	if err := c.f.db.Create(&p).Error; err != nil {
		return err
	}
	c.products[name] = p
	return nil
}

func (c *bookingTestContext) product(name string) (models.Product, error) {
	p, ok := c.products[name]
	if !ok {
		return p, fmt.Errorf("unknown product %q", name)
	}
	return p, nil
}

func (c *bookingTestContext) booksFromTo(who, name, start, end string) error {
	p, err := c.product(name)
	if err != nil {
		return err
	}
	s, err := calendar.ParseKey(start)
	if err != nil {
		return err
	}
	e, err := calendar.ParseKey(end)
	if err != nil {
		return err
	}
	c.last, c.err = c.f.svc.Commit(context.Background(), rental.CommitRequest{
		ProductID: p.ID, Start: s, End: e, Customer: customer.Identity{Name: who},
	}, cashier)
	return nil
}

func (c *bookingTestContext) theLastBookingIsReturned() error {
	if c.last == nil {
		return fmt.Errorf("no booking to return: %v", c.err)
	}
	_, err := c.f.svc.Return(context.Background(), c.last.ID, cashier)
	return err
}

func (c *bookingTestContext) theBookingSucceeds() error {
	return c.err
}

func (c *bookingTestContext) theBookingIsRejectedAs(kind string) error {
	if c.err == nil {
		return fmt.Errorf("expected %s, booking succeeded", kind)
	}
	if got := apperr.KindOf(c.err); string(got) != kind {
		return fmt.Errorf("expected %s, got %s (%v)", kind, got, c.err)
	}
	return nil
}

func (c *bookingTestContext) rangeFree(name, start, end string, want bool) error {
	p, err := c.product(name)
	if err != nil {
		return err
	}
	s, _ := calendar.ParseKey(start)
	e, _ := calendar.ParseKey(end)
	free, err := c.f.engine.IsRangeFree(context.Background(), p.ID, s, e)
	if err != nil {
		return err
	}
	if free != want {
		return fmt.Errorf("%s from %s to %s: free=%v, want %v", name, start, end, free, want)
	}
	return nil
}

func (c *bookingTestContext) isNotFreeFromTo(name, start, end string) error {
	return c.rangeFree(name, start, end, false)
}

func (c *bookingTestContext) isFreeFromTo(name, start, end string) error {
	return c.rangeFree(name, start, end, true)
}

func (c *bookingTestContext) juneShows(available, reserved int, name string) error {
	p, err := c.product(name)
	if err != nil {
		return err
	}
	m := c.f.engine.MonthAvailability(context.Background(), p.ID, 2024, time.June)
	if len(m.AvailableDates) != available || len(m.ReservedDates) != reserved {
		return fmt.Errorf("got %d available and %d reserved", len(m.AvailableDates), len(m.ReservedDates))
	}
	return nil
}

func initializeBookingScenario(t *testing.T) func(*godog.ScenarioContext) {
	return func(ctx *godog.ScenarioContext) {
		tc := &bookingTestContext{t: t}

		ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
			tc.reset()
			return ctx, nil
		})

		ctx.Step(`^a rentable product "([^"]*)" priced (\d+(?:\.\d+)?) DA per day$`, tc.aRentableProductPricedPerDay)
		ctx.Step(`^"([^"]*)" books "([^"]*)" from (\d{4}-\d{2}-\d{2}) to (\d{4}-\d{2}-\d{2})$`, tc.booksFromTo)
		ctx.Step(`^the last booking is returned$`, tc.theLastBookingIsReturned)

		ctx.Step(`^the booking succeeds$`, tc.theBookingSucceeds)
		ctx.Step(`^the booking is rejected as "([^"]*)"$`, tc.theBookingIsRejectedAs)
		ctx.Step(`^"([^"]*)" is not free from (\d{4}-\d{2}-\d{2}) to (\d{4}-\d{2}-\d{2})$`, tc.isNotFreeFromTo)
		ctx.Step(`^"([^"]*)" is free from (\d{4}-\d{2}-\d{2}) to (\d{4}-\d{2}-\d{2})$`, tc.isFreeFromTo)
		ctx.Step(`^June 2024 shows (\d+) available days and (\d+) reserved day for "([^"]*)"$`, tc.juneShows)
	}
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeBookingScenario(t),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

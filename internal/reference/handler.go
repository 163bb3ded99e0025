package reference

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type AddNameRequest struct {
	Name string `json:"name"`
}

type AddNameResponse struct {
	Name    string `json:"name"`
	Created bool   `json:"created"`
}

// GET /api/customers
func ListCustomersHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		names, err := store.ListCustomers(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(names)
	}
}

// POST /api/customers
func AddCustomerHandler(store *Store) fiber.Handler {
	return addNameHandler(store.AddCustomer)
}

// GET /api/employees
func ListEmployeesHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		names, err := store.ListEmployees(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(names)
	}
}

// POST /api/employees
func AddEmployeeHandler(store *Store) fiber.Handler {
	return addNameHandler(store.AddEmployee)
}

func addNameHandler(add func(ctx context.Context, name string) (bool, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AddNameRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		created, err := add(c.UserContext(), body.Name)
		if err != nil {
			return err
		}

		display, _, _ := normalizeName(body.Name)
		status := fiber.StatusOK
		if created {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(AddNameResponse{Name: display, Created: created})
	}
}

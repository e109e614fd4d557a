package intercept_test

import (
	"context"
	"fmt"
	"log"

	"github.com/priceflex/intercept"
	"github.com/priceflex/intercept/pkg/adapters/memory"
	"github.com/priceflex/intercept/pkg/capability"
	"github.com/priceflex/intercept/pkg/domain"
	"github.com/priceflex/intercept/pkg/ports"
)

// ExampleEngine_ApplyRecords demonstrates record-driven binding without a
// records repository on disk: records come from an in-memory source and
// reference handlers registered in the catalog.
func ExampleEngine_ApplyRecords() {
	src := memory.NewRecords(domain.InterceptorRecord{
		Name:        "pfxInterceptor_orderHooks",
		Enabled:     true,
		Bindings:    map[string]string{"orderSubmit": "orders.confirm"},
		Description: "Wraps order confirmations.",
	})

	eng, err := intercept.New(
		intercept.WithRecordSource(src),
		intercept.WithRunner(ports.RunnerFunc(
			func(ctx context.Context, action domain.Action, input any) (any, error) {
				return "order-1042", nil
			})),
	)
	if err != nil {
		log.Fatal(err)
	}

	// The bare action name binds POST; the handler's return value becomes
	// the trigger outcome.
	err = eng.RegisterHandler("orders.confirm", func(ctx context.Context, api *capability.Context) (any, error) {
		return fmt.Sprintf("confirmed %v", api.Result()), nil
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := eng.ApplyRecords(ctx); err != nil {
		log.Fatal(err)
	}

	res, err := eng.Trigger(ctx, "", domain.OrderSubmit, nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Value)

	// Output:
	// confirmed order-1042
}

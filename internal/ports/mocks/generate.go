//go:generate mockgen -source=../snapshot_store.go     -destination=./mock_snapshot_store.go     -package=mocks
//go:generate mockgen -source=../product_catalog.go    -destination=./mock_product_catalog.go    -package=mocks
//go:generate mockgen -source=../payment_gateway.go    -destination=./mock_payment_gateway.go    -package=mocks
//go:generate mockgen -source=../idempotency_store.go  -destination=./mock_idempotency_store.go  -package=mocks
//go:generate mockgen -source=../message_consumer.go   -destination=./mock_message_consumer.go   -package=mocks

package mocks

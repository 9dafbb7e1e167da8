//go:generate mockgen -source=../orders_api.go      -destination=./mock_orders_api.go      -package=mocks
//go:generate mockgen -source=../order_store.go     -destination=./mock_order_store.go     -package=mocks
//go:generate mockgen -source=../order_sink.go      -destination=./mock_order_sink.go      -package=mocks
//go:generate mockgen -source=../report_cache.go    -destination=./mock_report_cache.go    -package=mocks
//go:generate mockgen -source=../order_validator.go -destination=./mock_order_validator.go -package=mocks
//go:generate mockgen -source=../report_builder.go  -destination=./mock_report_builder.go  -package=mocks
//go:generate mockgen -source=../logger.go          -destination=./mock_logger.go          -package=mocks

package mocks

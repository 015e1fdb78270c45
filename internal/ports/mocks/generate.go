//go:generate mockgen -source=../order_api.go      -destination=./mock_order_api.go      -package=mocks
//go:generate mockgen -source=../catalog_api.go    -destination=./mock_catalog_api.go    -package=mocks
//go:generate mockgen -source=../account_api.go    -destination=./mock_account_api.go    -package=mocks
//go:generate mockgen -source=../alert_sink.go     -destination=./mock_alert_sink.go     -package=mocks
//go:generate mockgen -source=../kv_store.go       -destination=./mock_kv_store.go       -package=mocks
//go:generate mockgen -source=../product_cache.go  -destination=./mock_product_cache.go  -package=mocks
//go:generate mockgen -source=../image_uploader.go -destination=./mock_image_uploader.go -package=mocks

package mocks

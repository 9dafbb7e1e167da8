//go:generate mockgen -source=../consumer.go  -destination=./mock_consumer_deps.go  -package=mocks
//go:generate mockgen -source=../publisher.go -destination=./mock_publisher_deps.go -package=mocks

package mocks

package app

import "errors"

var errKafkaRequired = errors.New("kafka brokers are required (KAFKA_BROKER)")

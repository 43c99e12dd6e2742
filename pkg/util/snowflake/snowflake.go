package snowflake

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"vega_social_server/internal/config"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// Init creates the snowflake node. Call once at startup.
func Init() {
	nodeOnce.Do(func() {
		machineID := config.GetConfig().SnowflakeConfig.MachineID
		if machineID < 0 || machineID > 1023 {
			machineID = 1
			zap.L().Warn("invalid machineId in config, using default 1")
		}
		var err error
		node, err = snowflake.NewNode(machineID)
		if err != nil {
			zap.L().Fatal("failed to initialize snowflake node", zap.Error(err))
		}
	})
}

// GenerateID returns a new snowflake ID as int64.
func GenerateID() int64 {
	if node == nil {
		Init()
	}
	return node.Generate().Int64()
}

// GenerateIDString returns a new snowflake ID as a string, avoiding
// JavaScript integer precision loss on the wire.
func GenerateIDString() string {
	if node == nil {
		Init()
	}
	return node.Generate().String()
}

package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hassaan22/minaret/internal/db"
	"github.com/hassaan22/minaret/internal/http/api/device/packets"
	"github.com/hassaan22/minaret/internal/redis"
)

type DeviceController struct {
	store db.Store
}

func NewDeviceController(store db.Store) *DeviceController {
	return &DeviceController{store: store}
}

func RegisterPairingRoutes(r gin.IRoutes, store db.Store) {
	ctl := NewDeviceController(store)

	r.POST("/register", ctl.registerPairingCode)
	r.POST("/attach", ctl.attachDevice)
}

// registerPairingCode binds a JSON pairing request, checks that the target isn't
// already paired, stores the pairing code in Redis, and responds with the device ID.
func (d *DeviceController) registerPairingCode(c *gin.Context) {
	var request packets.DeviceRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isPaired, err := db.IsTargetPairedByDeviceID(&request.DeviceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if isPaired {
		log.Error().Str("deviceID", request.DeviceID).Msg("target is already paired")
		c.JSON(http.StatusBadRequest, gin.H{"error": "target is already paired"})
		return
	}

	redis.Set(c, request.PairingCode, request.DeviceID, 0)

	c.JSON(http.StatusOK, gin.H{"device_id": request.DeviceID})
}

// attachDevice verifies a paired device before it starts listening for
// playback commands over MQTT.
func (d *DeviceController) attachDevice(c *gin.Context) {
	var request packets.AttachRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		log.Error().Err(err).Msg("error parsing request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := db.GetTargetByDeviceID(&request.DeviceID)
	if err != nil {
		log.Error().Err(err).Str("deviceID", request.DeviceID).Msg("device ID not found")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized device"})
		return
	}

	log.Info().Str("deviceID", request.DeviceID).Str("kind", string(target.Kind)).Msg("device attached")
	c.JSON(http.StatusOK, gin.H{
		"success":        "device attached successfully",
		"commands_topic": "minaret/" + request.DeviceID + "/commands",
		"events_topic":   "minaret/" + request.DeviceID + "/events",
	})
}

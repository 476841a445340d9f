package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/taash/internal/config"
	"github.com/kiliankoe/taash/internal/game"
	"github.com/kiliankoe/taash/internal/rules"
)

// Register mounts the read-only HTTP endpoints and the JSON 404.
func Register(r *gin.Engine, rm *game.RoomManager) {
	r.GET("/health", HealthHandler(rm))
	r.GET("/api/rooms", RoomsHandler(rm))
	r.GET("/api/rooms/:code", RoomHandler(rm))
	r.GET("/api/game-types", GameTypesHandler())
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
}

func HealthHandler(rm *game.RoomManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC(), "rooms": rm.Count()})
	}
}

func RoomsHandler(rm *game.RoomManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": rm.Rooms()})
	}
}

func RoomHandler(rm *game.RoomManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		room, err := rm.RoomByCode(c.Param("code"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": room})
	}
}

// GameType describes one playable variant.
type GameType struct {
	ID          rules.Variant `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
}

func GameTypesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		out := make([]GameType, 0, len(rules.Variants))
		for _, v := range rules.Variants {
			out = append(out, GameType{ID: v, Name: v.DisplayName(), Description: v.Description()})
		}
		c.JSON(http.StatusOK, gin.H{"gameTypes": out})
	}
}

// CORS answers preflights and tags responses for allowed origins.
func CORS(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && cfg.AllowOrigin(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
			c.Header("Vary", "Origin")
		}
		if strings.EqualFold(c.Request.Method, http.MethodOptions) {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

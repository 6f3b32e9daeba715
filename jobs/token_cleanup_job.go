package jobs

import (
	"log"
	"time"

	"growthflow-server/services"
)

// TokenCleanupJob periodically purges expired and revoked refresh tokens
type TokenCleanupJob struct {
	jwtService *services.JWTService
	interval   time.Duration
	stopChan   chan bool
}

// NewTokenCleanupJob creates a new token cleanup job
func NewTokenCleanupJob(interval time.Duration) *TokenCleanupJob {
	return &TokenCleanupJob{
		jwtService: services.NewJWTService(),
		interval:   interval,
		stopChan:   make(chan bool),
	}
}

// Start begins the cleanup job
func (j *TokenCleanupJob) Start() {
	go j.run()
	log.Println("🚀 Token cleanup job started")
}

// Stop stops the cleanup job
func (j *TokenCleanupJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Token cleanup job stopped")
}

func (j *TokenCleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := j.jwtService.CleanupExpiredTokens(); err != nil {
				log.Printf("❌ Failed to clean up expired tokens: %v", err)
			}
		case <-j.stopChan:
			return
		}
	}
}

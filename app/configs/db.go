package configs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func (e ENV) DSN() string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		e.DBUser,
		e.DBPassword,
		e.DBHost,
		e.DBPort,
		e.DBName,
	)
}

// DBRetryDelay is the pause between failed connection attempts.
var DBRetryDelay = 5 * time.Second

// OpenConnection retries until the database answers a ping, the retry
// budget is spent or ctx is done.
func OpenConnection(ctx context.Context, env ENV, log zerolog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}
	if env.IsProduction() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	var lastErr error
	for i := 0; i < env.DBMaxRetries; i++ {
		if i > 0 {
			timer := time.NewTimer(DBRetryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, fmt.Errorf("database connection aborted after %d attempts: %w", i, ctx.Err())
			case <-timer.C:
			}
		}

		log.Info().
			Int("attempt", i+1).
			Int("max_attempts", env.DBMaxRetries).
			Str("host", env.DBHost).
			Str("database", env.DBName).
			Msg("connecting to database")

		db, err := gorm.Open(mysql.Open(env.DSN()), gormCfg)
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.PingContext(ctx)
				if pingErr == nil {
					sqlDB.SetMaxOpenConns(25)
					sqlDB.SetMaxIdleConns(10)
					sqlDB.SetConnMaxLifetime(30 * time.Minute)
					log.Info().Msg("database connection established")
					return db, nil
				}
				sqlDB.Close()
			}
			lastErr = pingErr
			log.Warn().Err(pingErr).Dur("retry_in", DBRetryDelay).Msg("database ping failed")
		} else {
			lastErr = err
			log.Warn().Err(err).Dur("retry_in", DBRetryDelay).Msg("failed to open gorm connection")
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("database connection aborted after %d attempts: %w", i+1, ctx.Err())
		}
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", env.DBMaxRetries, lastErr)
}

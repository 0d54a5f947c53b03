package database

import (
	"fmt"
	"log"
	"time"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// InitSQLX 初始化 sqlx 连接（pgx stdlib 驱动）
// 用于轮询等只读热点查询，绕过 GORM 的反射开销
func InitSQLX() *sqlx.DB {
	cfg := config.GlobalConfig.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Failed to connect sqlx: %v", err)
	}

	// 轮询连接池比主池小得多
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	log.Println("SQLX connection established")
	return db
}

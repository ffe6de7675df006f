package database

import (
	"fmt"
	"linkwrap-platform/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options 数据库连接参数
type Options struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Charset  string
	// SQLite 文件路径
	Path string
}

// Open 按驱动类型打开连接并完成迁移
func Open(opts Options) (*gorm.DB, error) {
	switch opts.Driver {
	case "sqlite":
		return InitSQLite(opts.Path)
	case "", "mysql":
		return InitMySQL(opts.Host, opts.Port, opts.User, opts.Password, opts.Name, opts.Charset)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", opts.Driver)
	}
}

// InitMySQL 连接 MySQL
func InitMySQL(host string, port int, user, password, dbName, charset string) (*gorm.DB, error) {
	if charset == "" {
		charset = "utf8mb4"
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=UTC",
		user, password, host, port, dbName, charset)

	connection, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	if err := Migrate(connection); err != nil {
		return nil, err
	}
	return connection, nil
}

// InitSQLite 连接 SQLite, path 可以是文件路径或 file::memory: 形式的 DSN
func InitSQLite(path string) (*gorm.DB, error) {
	connection, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	// SQLite 只允许单写, 串行化连接避免 database is locked
	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(connection); err != nil {
		return nil, err
	}
	return connection, nil
}

// Migrate 自动迁移表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.WrappedLink{}, &model.ClickRecord{}); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		// 唯一约束冲突翻译为 gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"
)

// --- Configuración ScyllaDB ---
type ScyllaKeyspaceConfig struct {
	Hosts       []string
	Keyspace    string
	Username    string
	Password    string
	Timeout     time.Duration
	NumConns    int
	Consistency gocql.Consistency
}

type ScyllaManager struct {
	sessions map[string]*gocql.Session // keyspace → session
	configs  map[string]ScyllaKeyspaceConfig
	mu       sync.Mutex
}

// --- Variables Globales ---
var (
	Scylla *ScyllaManager
	Redis  *redis.Client
)

// ConnectDatabases inicializa ScyllaDB (multi-keyspace) y Redis.
func ConnectDatabases() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := InitScyllaDB(); err != nil {
		log.Fatalf("❌ Falló la inicialización de ScyllaDB: %v", err)
	}

	connectRedis(ctx)

	log.Println("✅ Todas las bases de datos están conectadas")
}

// =============================================
// SCYLLA DB (Multi-Keyspaces con roles)
// =============================================

// InitScyllaDB inicializa el gestor de sesiones ScyllaDB.
func InitScyllaDB() error {
	Scylla = &ScyllaManager{
		sessions: make(map[string]*gocql.Session),
		configs:  loadScyllaConfigs(),
	}

	for keyspace := range Scylla.configs {
		if _, err := Scylla.GetSession(keyspace); err != nil {
			return fmt.Errorf("falló la inicialización del keyspace %s: %v", keyspace, err)
		}
	}

	// Nota: las tablas se crean manualmente vía scripts/scylladb_init.cql
	return nil
}

// loadScyllaConfigs carga las configuraciones desde el entorno.
func loadScyllaConfigs() map[string]ScyllaKeyspaceConfig {
	configs := make(map[string]ScyllaKeyspaceConfig)

	hosts := strings.Split(os.Getenv("SCYLLA_HOSTS"), ",")
	timeout := 5 * time.Second
	numConns := 20
	consistency := gocql.Quorum

	// --- Keyspace Catálogo ---
	if ks := os.Getenv("SCYLLA_KS_CATALOGO_KEYSPACE"); ks != "" {
		configs[ks] = ScyllaKeyspaceConfig{
			Hosts:       hosts,
			Keyspace:    ks,
			Username:    os.Getenv("SCYLLA_KS_CATALOGO_ROLE"),
			Password:    os.Getenv("SCYLLA_KS_CATALOGO_PASSWORD"),
			Timeout:     timeout,
			NumConns:    numConns,
			Consistency: consistency,
		}
	}

	// --- Keyspace Pedidos ---
	if ks := os.Getenv("SCYLLA_KS_PEDIDOS_KEYSPACE"); ks != "" {
		configs[ks] = ScyllaKeyspaceConfig{
			Hosts:       hosts,
			Keyspace:    ks,
			Username:    os.Getenv("SCYLLA_KS_PEDIDOS_ROLE"),
			Password:    os.Getenv("SCYLLA_KS_PEDIDOS_PASSWORD"),
			Timeout:     timeout,
			NumConns:    numConns,
			Consistency: consistency,
		}
	}

	// --- Keyspace Usuarios ---
	if ks := os.Getenv("SCYLLA_KS_USUARIOS_KEYSPACE"); ks != "" {
		configs[ks] = ScyllaKeyspaceConfig{
			Hosts:       hosts,
			Keyspace:    ks,
			Username:    os.Getenv("SCYLLA_KS_USUARIOS_ROLE"),
			Password:    os.Getenv("SCYLLA_KS_USUARIOS_PASSWORD"),
			Timeout:     timeout,
			NumConns:    numConns,
			Consistency: consistency,
		}
	}

	return configs
}

// createScyllaCluster crea la configuración de cluster para un keyspace.
func createScyllaCluster(config ScyllaKeyspaceConfig) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(config.Hosts...)
	cluster.Keyspace = config.Keyspace
	cluster.Consistency = config.Consistency
	cluster.Timeout = config.Timeout
	cluster.NumConns = config.NumConns

	cluster.MaxWaitSchemaAgreement = 30 * time.Second
	cluster.ReconnectInterval = 1 * time.Second
	cluster.Authenticator = gocql.PasswordAuthenticator{
		Username: config.Username,
		Password: config.Password,
	}

	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	return cluster
}

// GetSession retorna una sesión para el keyspace dado.
func (sm *ScyllaManager) GetSession(keyspace string) (*gocql.Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	config, exists := sm.configs[keyspace]
	if !exists {
		return nil, fmt.Errorf("keyspace '%s' no configurado", keyspace)
	}

	if session, exists := sm.sessions[keyspace]; exists {
		if err := session.Query("SELECT now() FROM system.local").Exec(); err == nil {
			return session, nil
		}
		// Sesión inválida, se recrea
		session.Close()
	}

	cluster := createScyllaCluster(config)

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("error creando sesión para %s: %v", keyspace, err)
	}

	sm.sessions[keyspace] = session
	log.Printf("✅ Nueva sesión ScyllaDB para keyspace '%s' (rol: %s)",
		keyspace, config.Username)

	return session, nil
}

// CloseScylla cierra todas las sesiones ScyllaDB.
func CloseScylla() {
	Scylla.mu.Lock()
	defer Scylla.mu.Unlock()

	for keyspace, session := range Scylla.sessions {
		session.Close()
		log.Printf("🔌 Sesión ScyllaDB cerrada para keyspace '%s'", keyspace)
	}
}

// =============================================
// HELPERS DE ACCESO A SESIONES
// =============================================

// GetCatalogoSession retorna la sesión del keyspace de catálogo.
func GetCatalogoSession() (*gocql.Session, error) {
	keyspace := os.Getenv("SCYLLA_KS_CATALOGO_KEYSPACE")
	if keyspace == "" {
		return nil, fmt.Errorf("SCYLLA_KS_CATALOGO_KEYSPACE no configurado")
	}
	return Scylla.GetSession(keyspace)
}

// GetPedidosSession retorna la sesión del keyspace de pedidos/cotizaciones.
func GetPedidosSession() (*gocql.Session, error) {
	keyspace := os.Getenv("SCYLLA_KS_PEDIDOS_KEYSPACE")
	if keyspace == "" {
		return nil, fmt.Errorf("SCYLLA_KS_PEDIDOS_KEYSPACE no configurado")
	}
	return Scylla.GetSession(keyspace)
}

// GetUsuariosSession retorna la sesión del keyspace de usuarios/direcciones.
func GetUsuariosSession() (*gocql.Session, error) {
	keyspace := os.Getenv("SCYLLA_KS_USUARIOS_KEYSPACE")
	if keyspace == "" {
		return nil, fmt.Errorf("SCYLLA_KS_USUARIOS_KEYSPACE no configurado")
	}
	return Scylla.GetSession(keyspace)
}

// =============================================
// REDIS
// =============================================
func connectRedis(ctx context.Context) {
	Redis = redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_HOST"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if err := Redis.Ping(ctx).Err(); err != nil {
		log.Fatal("❌ Error de conexión a Redis:", err)
	}
	log.Println("✅ Conectado a Redis")
}

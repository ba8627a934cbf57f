package conf

import (
	"context"
	"encoding/json/v2"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/zeptools/tablet-core/db/kvdb"
	"github.com/zeptools/tablet-core/db/kvdb/impls/redis"
	"github.com/zeptools/tablet-core/db/sqldb"
	_ "github.com/zeptools/tablet-core/db/sqldb/impls/mysql" // factory registration
	_ "github.com/zeptools/tablet-core/db/sqldb/impls/pgsql" // factory registration
)

// Core - common config
type Core struct {
	AppName                string   `json:"app_name"`
	DataDir                string   `json:"data_dir"`                  // point configs, background templates, fonts
	ReadOnlyOrderVersions  []string `json:"read_only_order_versions"`  // order versions closed for edits
	TokenIssuer            string   `json:"token_issuer"`              // `iss` claim on scan tokens
	TokenSigningKey        string   `json:"token_signing_key"`         // HS256 secret for scan tokens
	TokenCipherKey         string   `json:"token_cipher_key"`          // optional 32-byte key -> opaque tokens
	TokenValidMinutes      int      `json:"token_valid_minutes"`       // scan token lifetime
	PreviewCacheTTLMinutes int      `json:"preview_cache_ttl_minutes"` // rendered page cache in KVDB

	AppRoot    string             `json:"-"` // Filled from compiled paths
	RootCtx    context.Context    `json:"-"` // Global Context with RootCancel
	RootCancel context.CancelFunc `json:"-"` // CancelFunc for RootCtx

	VolatileKV  *sync.Map `json:"-"` // map[string]string
	ActionLocks *sync.Map `json:"-"` // map[string]struct{}

	KVDBConf          kvdb.Conf               `json:"-"` // loadKVDBConf
	BackendKVDBClient kvdb.Client             `json:"-"` // prepareKVDBClient
	SQLDBConfs        map[string]*sqldb.Conf  `json:"-"` // loadSQLDBConfs
	BackendSQLDBs     map[string]sqldb.Client `json:"-"` // prepareSQLDBClients

	RawSQLStores map[string]*sqldb.RawSQLStore `json:"-"` // per dbtype, PrepareSQLDatabases
}

// BaseInit - 1st step for initialization
// 1. set AppRoot
// 2. load config/.core.json file
// 3. prepare base fields
// 4. Start ShutdownSignalListener
func (c *Core) BaseInit(appRoot string, rootCtx context.Context, rootCancel context.CancelFunc) error {
	c.AppRoot = appRoot
	envFilePath := filepath.Join(appRoot, "config", ".core.json")
	envBytes, err := os.ReadFile(envFilePath) // ([]byte, error)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(envBytes, c); err != nil {
		return err
	}
	if c.DataDir == "" {
		c.DataDir = filepath.Join(appRoot, "data")
	}
	c.RootCtx = rootCtx
	c.RootCancel = rootCancel
	c.prepareDefaultFeatures()
	c.startShutdownSignalListener()
	return nil
}

func (c *Core) prepareDefaultFeatures() {
	c.VolatileKV = &sync.Map{}
	c.ActionLocks = &sync.Map{}
}

var once sync.Once

func (c *Core) startShutdownSignalListener() {
	once.Do(func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigs
			log.Printf("[INFO] got signal [%s]. shutting down app [%s] ...", sig, c.AppName)
			c.RootCancel() // broadcast to all child services via Context.Done()
		}()
	})
	log.Printf("[INFO][CORE] shutdown signal listener started")
}

func (c *Core) PrepareKVDatabase() error {
	// Load KV Database Config File
	err := c.loadKVDBConf()
	if err != nil {
		return err
	}
	if err = c.prepareKVDBClient(); err != nil {
		return err
	}
	return nil
}

func (c *Core) loadKVDBConf() error {
	confFilePath := filepath.Join(c.AppRoot, "config", ".kv-databases.json")
	confBytes, err := os.ReadFile(confFilePath) // ([]byte, error)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(confBytes, &c.KVDBConf); err != nil {
		return err
	}
	return nil
}

func (c *Core) prepareKVDBClient() error {
	switch c.KVDBConf.Type {
	case "redis":
		c.BackendKVDBClient = &redis.Client{Conf: &c.KVDBConf}
		if err := c.BackendKVDBClient.Init(); err != nil {
			return err
		}
	// case "memcached"
	default:
		return errors.New("unsupported key-value database type")
	}
	return nil
}

func (c *Core) loadSQLDBConfs() error {
	confFilePath := filepath.Join(c.AppRoot, "config", ".sql-databases.json")
	confBytes, err := os.ReadFile(confFilePath) // ([]byte, error)
	if err != nil {
		return err
	}
	c.SQLDBConfs = make(map[string]*sqldb.Conf)
	if err = json.Unmarshal(confBytes, &c.SQLDBConfs); err != nil {
		return err
	}
	return nil
}

// prepareSQLDBClients - Build & Init SQL DB Clients
// Use after loadSQLDBConfs
func (c *Core) prepareSQLDBClients() error {
	c.BackendSQLDBs = make(map[string]sqldb.Client)
	for dbName, sqlDBConf := range c.SQLDBConfs {
		dbClient, err := sqldb.New(sqlDBConf.Type, sqlDBConf)
		if err != nil {
			return err
		}
		if err = dbClient.Init(); err != nil {
			return err
		}
		c.BackendSQLDBs[dbName] = dbClient
	}
	return nil
}

// PrepareSQLDatabases for SQL DB Clients & RawSQL Stores
// ensureImports forces side-effect imports of the store packages
// so their embedded `sql` dirs are registered before loading.
func (c *Core) PrepareSQLDatabases(ensureImports func()) error {
	// Load SQL Databases Config File
	err := c.loadSQLDBConfs()
	if err != nil {
		return err
	}
	DBTypesSet := make(map[string]struct{})
	for _, conf := range c.SQLDBConfs {
		DBTypesSet[conf.Type] = struct{}{}
	}
	if len(DBTypesSet) == 0 {
		return nil
	}

	// Prepare SQL DB Clients
	if err = c.prepareSQLDBClients(); err != nil {
		return err
	}

	// Load Raw Statements to Stores
	if ensureImports != nil {
		ensureImports()
	}
	c.RawSQLStores = make(map[string]*sqldb.RawSQLStore, len(DBTypesSet))
	for dbType := range DBTypesSet {
		store := sqldb.NewRawStore()
		prefix := sqldb.PlaceholderPrefixForDBType[dbType]
		if err = sqldb.LoadRawStmtsToStore(store, dbType, prefix); err != nil {
			return err
		}
		c.RawSQLStores[dbType] = store
	}
	return nil
}

func (c *Core) ResourceCleanUp() {
	log.Println("[INFO] App Resource Cleaning Up...")
	// Clean up DB clients ----
	if c.BackendKVDBClient != nil {
		if err := c.BackendKVDBClient.Close(); err != nil {
			log.Println("[ERROR] Failed to close KV database client")
		}
	}
	for name, sqlDBClient := range c.BackendSQLDBs {
		dbType := sqlDBClient.GetConf().Type
		log.Printf("[INFO][%s] Closing %q SQL DB client", dbType, name)
		err := sqlDBClient.Close()
		if err != nil {
			log.Printf("[ERROR][%s] Failed to close %q SQL DB client", dbType, name)
		} else {
			log.Printf("[INFO][%s] %q SQL DB client closed", dbType, name)
		}
	}
	//----
	log.Println("[INFO] App Resource Cleanup Complete")
}

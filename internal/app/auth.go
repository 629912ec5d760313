package app

import (
	"bufio"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	AuthFileEnv     = "AUTH_FILE"
	DefaultAuthFile = "auth.secret"
	authRealm       = "Epoch Demo Events"
)

// Argon2id parameters (OWASP recommended)
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

// Credentials protect event writes with HTTP Basic Auth.
// A nil *Credentials lets every request through.
type Credentials struct {
	User string
	hash []byte
}

// ResolveAuthFile picks the auth file path: AUTH_FILE wins over the configured path.
func ResolveAuthFile(configured string) string {
	if env := os.Getenv(AuthFileEnv); env != "" {
		return env
	}
	return configured
}

// LoadAuthCredentials reads a username:hash file.
// An empty path or a missing file returns nil credentials and no error.
func LoadAuthCredentials(path string) (*Credentials, error) {
	if path == "" {
		log.Println("Auth file not configured, event writes are open")
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Println("╔══════════════════════════════════════════════════════════════════╗")
			log.Println("║  ⚠️  NO AUTH FILE FOUND - EVENT WRITES UNPROTECTED!               ║")
			log.Printf("║  Expected file: %-48s ║\n", path)
			log.Println("║  To create auth file, run: ./epoch-demo hash-password           ║")
			log.Println("╚══════════════════════════════════════════════════════════════════╝")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read auth file: %w", err)
	}

	// Format: username:hash
	line := strings.TrimSpace(string(data))
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid auth file format (expected: username:hash)")
	}

	log.Printf("✅ Basic Auth enabled for event writes (user: %s, file: %s)", parts[0], path)
	return &Credentials{User: parts[0], hash: []byte(parts[1])}, nil
}

// HashPassword creates an Argon2id hash of the password
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// $argon2id$v=19$m=65536,t=1,p=4$salt$hash
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argon2Memory, argon2Time, argon2Threads, b64Salt, b64Hash), nil
}

// VerifyPassword verifies a password against an Argon2id hash
func VerifyPassword(password, hash string) (bool, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("invalid hash format")
	}

	if parts[1] != "argon2id" {
		return false, fmt.Errorf("not an argon2id hash")
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, fmt.Errorf("failed to parse hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %w", err)
	}

	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %w", err)
	}

	computedHash := argon2.IDKey([]byte(password), salt, time, memory, uint8(threads), uint32(len(decodedHash)))

	return subtle.ConstantTimeCompare(decodedHash, computedHash) == 1, nil
}

// RequireAuth enforces Basic Auth with Argon2id when credentials are loaded
func (c *Credentials) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c == nil {
			next(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()

		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(c.User)) == 1

		passMatch := false
		if ok && userMatch {
			var err error
			passMatch, err = VerifyPassword(pass, string(c.hash))
			if err != nil {
				log.Printf("Error verifying password: %v", err)
				passMatch = false
			}
		}

		if !ok || !userMatch || !passMatch {
			w.Header().Set("WWW-Authenticate", `Basic realm="`+authRealm+`"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			log.Printf("⚠️  Failed auth attempt from %s (user: %s)", r.RemoteAddr, user)
			return
		}

		next(w, r)
	}
}

// CreateAuthFile writes username:hash to path with 0400 permissions.
// An existing file is replaced only after confirmation or with overwrite.
func CreateAuthFile(path, username, password string, overwrite bool) error {
	if path == "" {
		path = DefaultAuthFile
	}

	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			fmt.Printf("Auth file already exists: %s\n", path)
			fmt.Print("Overwrite? (y/N): ")
			reader := bufio.NewReader(os.Stdin)
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				return fmt.Errorf("aborted")
			}
		}
		// 0400 files cannot be truncated in place
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing auth file: %w", err)
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	content := fmt.Sprintf("%s:%s\n", username, hash)
	if err := os.WriteFile(path, []byte(content), 0400); err != nil {
		return fmt.Errorf("failed to write auth file: %w", err)
	}

	fmt.Printf("✅ Auth file created: %s (mode: 0400 read-only)\n", path)
	fmt.Printf("   Username: %s\n", username)
	return nil
}

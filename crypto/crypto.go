package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/goccy/go-json"
	"github.com/spf13/viper"

	"github.com/lakedeck/lakedeck/constants"
)

var (
	kmsClient *kms.Client
	kmsKeyID  string
	localKey  []byte
	useKMS    bool
	disabled  bool
	once      sync.Once
)

type cryptoObj struct {
	EncryptedData string `json:"encrypted_data"`
}

// InitEncryption initializes encryption based on KMS key or passphrase.
// An empty key disables encryption; configs pass through as plaintext.
func InitEncryption() error {
	var initErr error

	once.Do(func() {
		key := viper.GetString(constants.EncryptionKey)
		if strings.TrimSpace(key) == "" {
			disabled = true
			return
		}

		if strings.HasPrefix(key, constants.KMSARNPrefix) {
			cfg, err := config.LoadDefaultConfig(context.Background())
			if err != nil {
				initErr = fmt.Errorf("failed to load AWS config: %w", err)
				return
			}
			kmsClient = kms.NewFromConfig(cfg)
			kmsKeyID = key
			useKMS = true
		} else {
			// Local AES-GCM Mode with SHA-256 derived key
			hash := sha256.Sum256([]byte(key))
			localKey = hash[:]
			useKMS = false
		}
	})

	return initErr
}

func Encrypt(plaintext string) ([]byte, error) {
	if err := InitEncryption(); err != nil {
		return nil, fmt.Errorf("encryption failed: %w", err)
	}
	if disabled {
		return []byte(plaintext), nil
	}
	if useKMS {
		out, err := kmsClient.Encrypt(context.Background(), &kms.EncryptInput{
			KeyId:     &kmsKeyID,
			Plaintext: []byte(plaintext),
		})
		if err != nil {
			return nil, fmt.Errorf("encryption failed: %w", err)
		}
		return out.CiphertextBlob, nil
	}

	block, err := aes.NewCipher(localKey)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

func Decrypt(cipherData []byte) (string, error) {
	if err := InitEncryption(); err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}
	if disabled {
		return string(cipherData), nil
	}
	if useKMS {
		out, err := kmsClient.Decrypt(context.Background(), &kms.DecryptInput{
			CiphertextBlob: cipherData,
		})
		if err != nil {
			return "", fmt.Errorf("decryption failed: %w", err)
		}
		return string(out.Plaintext), nil
	}

	block, err := aes.NewCipher(localKey)
	if err != nil {
		return "", err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := aead.NonceSize()
	if len(cipherData) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := cipherData[:nonceSize], cipherData[nonceSize:]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}

	return string(plaintext), nil
}

// EncryptJSONString wraps the ciphertext in a base64 envelope so encrypted
// configs stay valid JSON at rest.
func EncryptJSONString(plain string) (string, error) {
	if err := InitEncryption(); err != nil {
		return "", fmt.Errorf("encryption failed: %w", err)
	}
	if disabled {
		return plain, nil
	}

	encrypted, err := Encrypt(plain)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(cryptoObj{
		EncryptedData: base64.StdEncoding.EncodeToString(encrypted),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal encrypted data: %v", err)
	}

	return string(data), nil
}

func DecryptJSONString(encryptedObjStr string) (string, error) {
	if err := InitEncryption(); err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}
	if disabled {
		return encryptedObjStr, nil
	}

	// Unmarshal the encrypted object
	cryptoObj := cryptoObj{}

	if err := json.Unmarshal([]byte(encryptedObjStr), &cryptoObj); err != nil {
		return "", fmt.Errorf("failed to unmarshal encrypted data: %v", err)
	}

	// Decode the base64-encoded encrypted data
	encryptedData, err := base64.StdEncoding.DecodeString(cryptoObj.EncryptedData)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 data: %v", err)
	}

	// Decrypt the data
	decrypted, err := Decrypt(encryptedData)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt data: %v", err)
	}

	return decrypted, nil
}

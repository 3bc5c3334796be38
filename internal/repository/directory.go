//go:generate mockery --name DirectoryRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"fmt"

	"go_saas_provisioner/internal/config"
	"go_saas_provisioner/internal/middleware"

	"github.com/go-ldap/ldap/v3"
)

// DirectoryRepository は社内ディレクトリ (LDAP) へのテナント管理者登録です。
// 登録はベストエフォートであり、失敗してもサインアップ自体は成立します。
type DirectoryRepository interface {
	RegisterAdminUser(ctx context.Context, tenantID, email, name, password string) error
}

type ldapDirectoryRepository struct {
	cfg config.LDAPConfig
}

func NewLDAPDirectoryRepository(cfg config.LDAPConfig) DirectoryRepository {
	return &ldapDirectoryRepository{cfg: cfg}
}

// RegisterAdminUser はテナント管理者のエントリをディレクトリに追加します。
// 接続は呼び出しごとに張り直します (登録頻度が低いため接続プールは持ちません)。
func (r *ldapDirectoryRepository) RegisterAdminUser(ctx context.Context, tenantID, email, name, password string) error {
	logger := middleware.GetLogger(ctx)

	conn, err := ldap.DialURL(r.cfg.URL)
	if err != nil {
		return fmt.Errorf("ldapDirectoryRepository.RegisterAdminUser: dial: %w", err)
	}
	defer conn.Close()

	if err := conn.Bind(r.cfg.BindDN, r.cfg.BindPassword); err != nil {
		return fmt.Errorf("ldapDirectoryRepository.RegisterAdminUser: bind: %w", err)
	}

	hashed, err := hashSSHA(password)
	if err != nil {
		return fmt.Errorf("ldapDirectoryRepository.RegisterAdminUser: hash: %w", err)
	}

	dn := fmt.Sprintf("uid=%s,%s", ldap.EscapeDN(email), r.cfg.UserBaseDN)
	req := ldap.NewAddRequest(dn, nil)
	req.Attribute("objectClass", []string{"inetOrgPerson"})
	req.Attribute("uid", []string{email})
	req.Attribute("cn", []string{name})
	req.Attribute("sn", []string{name})
	req.Attribute("mail", []string{email})
	req.Attribute("o", []string{tenantID})
	req.Attribute("userPassword", []string{hashed})

	if err := conn.Add(req); err != nil {
		// 再実行時に同一エントリが既にあれば成功扱いです。
		if ldap.IsErrorWithCode(err, ldap.LDAPResultEntryAlreadyExists) {
			logger.Info("Directory entry already exists, skipping", "dn", dn)
			return nil
		}
		return fmt.Errorf("ldapDirectoryRepository.RegisterAdminUser: add: %w", err)
	}

	logger.Info("Directory entry created", "dn", dn, "tenant_id", tenantID)
	return nil
}

// hashSSHA はOpenLDAPの {SSHA} 形式でパスワードをハッシュ化します。
func hashSSHA(password string) (string, error) {
	salt := make([]byte, 4)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	h := sha1.New()
	h.Write([]byte(password))
	h.Write(salt)
	digest := append(h.Sum(nil), salt...)
	return "{SSHA}" + base64.StdEncoding.EncodeToString(digest), nil
}

package accounts

import (
	"os"
	"path/filepath"
)

// Default file names inside the configuration directory.
const (
	DefaultDeParaFile    = "DE-PARA.xlsx"
	DefaultSuppliersFile = "Base_Fornecedores.xlsx"
)

// DefaultPaths returns the DE-PARA and supplier base paths under dir.
func DefaultPaths(dir string) (depara, suppliers string) {
	return filepath.Join(dir, DefaultDeParaFile), filepath.Join(dir, DefaultSuppliersFile)
}

// Seed writes empty tables with headers for both knowledge sources. Existing
// files are left alone.
func Seed(dir string) error {
	depara, suppliers := DefaultPaths(dir)
	for path, kind := range map[string]Kind{depara: DePara, suppliers: Suppliers} {
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := NewService(kind, nil).Save(path); err != nil {
			return err
		}
	}
	return nil
}

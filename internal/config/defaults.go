package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	InvoiceNote = "Arrêté la présente facture à la somme indiquée ci-dessous."
	QuoteNote   = "Validité de l'offre : 30 jours."
)

// DocumentDefaults are the values stamped on new drafts, type changes and
// quote conversions.
type DocumentDefaults struct {
	TaxRate           float64       `mapstructure:"taxRate"`
	DueDays           int           `mapstructure:"dueDays"`
	ConversionDueDays int           `mapstructure:"conversionDueDays"`
	PaymentMethod     string        `mapstructure:"paymentMethod"`
	InvoiceNote       string        `mapstructure:"invoiceNote"`
	QuoteNote         string        `mapstructure:"quoteNote"`
	AutosaveDelay     time.Duration `mapstructure:"autosaveDelay"`
}

func DefaultDocumentDefaults() DocumentDefaults {
	return DocumentDefaults{
		TaxRate:           18,
		DueDays:           15,
		ConversionDueDays: 30,
		PaymentMethod:     "Virement",
		InvoiceNote:       InvoiceNote,
		QuoteNote:         QuoteNote,
		AutosaveDelay:     800 * time.Millisecond,
	}
}

type DefaultsHolder struct {
	current atomic.Value // holds DocumentDefaults
}

// NewStaticDefaultsHolder returns a holder that never reloads.
func NewStaticDefaultsHolder(d DocumentDefaults) *DefaultsHolder {
	holder := &DefaultsHolder{}
	holder.current.Store(d)
	return holder
}

// NewDefaultsHolder reads defaults.yml and keeps watching it for changes.
// A missing file falls back to DefaultDocumentDefaults.
func NewDefaultsHolder(cfg Config) (*DefaultsHolder, error) {
	v := viper.New()

	if cfg.DefaultsPath != "" {
		v.SetConfigFile(cfg.DefaultsPath)
	} else {
		v.SetConfigName("defaults")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/facturier")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FACTURIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultDocumentDefaults()
	v.SetDefault("documents.taxRate", defaults.TaxRate)
	v.SetDefault("documents.dueDays", defaults.DueDays)
	v.SetDefault("documents.conversionDueDays", defaults.ConversionDueDays)
	v.SetDefault("documents.paymentMethod", defaults.PaymentMethod)
	v.SetDefault("documents.invoiceNote", defaults.InvoiceNote)
	v.SetDefault("documents.quoteNote", defaults.QuoteNote)
	v.SetDefault("documents.autosaveDelay", defaults.AutosaveDelay)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileLoaded = false
	}

	var current DocumentDefaults
	if err := v.UnmarshalKey("documents", &current); err != nil {
		return nil, err
	}
	if err := validateDocumentDefaults(current); err != nil {
		return nil, err
	}

	holder := NewStaticDefaultsHolder(current)
	if !fileLoaded {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated DocumentDefaults
		if err := v.UnmarshalKey("documents", &updated); err != nil {
			log.Printf("[defaults] reload failed: %v", err)
			return
		}
		if err := validateDocumentDefaults(updated); err != nil {
			log.Printf("[defaults] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[defaults] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *DefaultsHolder) Get() DocumentDefaults {
	return h.current.Load().(DocumentDefaults)
}

func validateDocumentDefaults(d DocumentDefaults) error {
	if d.TaxRate < 0 {
		return errors.New("documents.taxRate cannot be negative")
	}
	if d.DueDays < 0 || d.ConversionDueDays < 0 {
		return errors.New("documents due days cannot be negative")
	}
	if d.AutosaveDelay <= 0 {
		return errors.New("documents.autosaveDelay must be positive")
	}
	return nil
}

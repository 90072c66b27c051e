package correction

// CorrectMass converts a mass at tempC to observed and standard volume.
// The density at tempC is taken as ρ15/VCF.
//
//	ρT   = (ρ15/1000)/VCF
//	Vobs = mass/ρT
//	V15  = Vobs·VCF
func (c *Converter) CorrectMass(rho15, massTon, tempC float64) (Result, error) {
	ev, err := c.calc.Evaluate(rho15, tempC)
	if err != nil {
		return Result{}, err
	}

	rhoT := (rho15 / 1000) / ev.VCF
	vobs := massTon / rhoT
	return Result{
		Result:      ev.Report(),
		Mode:        ModeMass,
		VolumeObsM3: &vobs,
		RhoTTonM3:   &rhoT,
		MassTon:     massTon,
		V15M3:       vobs * ev.VCF,
	}, nil
}

// Package physics contains the stateless building blocks of the longitudinal
// vehicle model: resistive forces, Euler integration, engine speed and torque
// conversions, and fuel rate.
//
// Every function depends only on its arguments. Units are SI unless the name
// says otherwise (RPM, kg/kWh, kg/h). Force helpers return magnitudes; callers
// apply the direction.
package physics
